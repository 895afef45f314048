/*
Package query answers suffix frequency queries against a built trie.

For an order-N token sequence w1..wN the engine reports, in order, the
frequency of w1..wN, w2..wN, down to wN alone. Each suffix is looked up
independently at the level matching its length.

With caching enabled the engine reuses the key chains computed for the
previous query wherever the two queries share leading tokens of a suffix.
The frequencies reported are the same with or without the cache.
*/
package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/ngramserve/pkg/hashing"
	"github.com/bastiangx/ngramserve/pkg/ngram"
	"github.com/bastiangx/ngramserve/pkg/trie"
)

// ErrOrderMismatch is returned when a token sequence does not have exactly
// the order of the trie.
var ErrOrderMismatch = errors.New("token count does not match trie order")

// Result is the answer to one query line.
type Result struct {
	Tokens      []string
	Suffixes    []string
	Frequencies []trie.Frequency
	// Elapsed covers the trie lookups only, not parsing.
	Elapsed time.Duration
}

// Engine runs suffix queries. It is not safe for concurrent use when the
// cache is enabled.
type Engine struct {
	trie    trie.ITrie
	order   int
	delim   rune
	cache   *chainCache
	queries int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache toggles reuse of key chains between consecutive queries.
func WithCache(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.cache = newChainCache(e.order)
		} else {
			e.cache = nil
		}
	}
}

// WithDelimiter sets the token delimiter used by QueryLine.
func WithDelimiter(delim rune) Option {
	return func(e *Engine) {
		e.delim = delim
	}
}

// NewEngine creates an engine reading from t. Queries must have exactly
// t.Order() tokens.
func NewEngine(t trie.ITrie, opts ...Option) *Engine {
	e := &Engine{
		trie:  t,
		order: t.Order(),
		delim: ngram.DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Order returns the number of tokens every query must have.
func (e *Engine) Order() int {
	return e.order
}

// Cached reports whether the chain cache is enabled.
func (e *Engine) Cached() bool {
	return e.cache != nil
}

// QueryAll returns result[i] = frequency of tokens[i:].
func (e *Engine) QueryAll(tokens []string) ([]trie.Frequency, error) {
	n := len(tokens)
	if n != e.order {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrOrderMismatch, n, e.order)
	}
	e.queries++

	result := make([]trie.Frequency, n)
	if e.cache != nil {
		chains := e.cache.update(tokens)
		for i := 0; i < n; i++ {
			result[i] = e.trie.QueryFrequency(n-i, chains[i][n-i-1])
		}
		return result, nil
	}

	for i := 0; i < n; i++ {
		result[i] = e.trie.QueryFrequency(n-i, hashing.Key(tokens[i:]))
	}
	return result, nil
}

// QueryLine extracts the n-gram from line and queries all its suffixes.
func (e *Engine) QueryLine(line string) (Result, error) {
	tokens, err := ngram.Extract(line, e.order, e.delim)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	freqs, err := e.QueryAll(tokens)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Tokens:      tokens,
		Suffixes:    ngram.Suffixes(tokens, e.delim),
		Frequencies: freqs,
		Elapsed:     elapsed,
	}, nil
}

// Stats returns query and cache counters.
func (e *Engine) Stats() map[string]int {
	stats := map[string]int{
		"queries": e.queries,
		"order":   e.order,
		"cache":   0,
	}
	if e.cache != nil {
		stats["cache"] = 1
		stats["cacheHits"] = e.cache.hits
		stats["cacheMisses"] = e.cache.misses
		stats["memoWords"] = len(e.cache.memo)
	}
	return stats
}
