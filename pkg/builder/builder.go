/*
Package builder fills a trie from a tokenized corpus.

Every line of the corpus is one sentence. For each start position p of a
sentence of length L and each order k in 1..min(N, L-p), the builder counts
one occurrence of tokens[p:p+k] at level k. Windows never span two lines.

Because every k-gram occurrence is counted together with its (k-1)-gram
prefix from the same start, a key present at level k always has its prefix
at level k-1 with a count at least as large.
*/
package builder

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/ngramserve/pkg/hashing"
	"github.com/bastiangx/ngramserve/pkg/ngram"
	"github.com/bastiangx/ngramserve/pkg/trie"
	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single corpus line.
const maxLineSize = 1024 * 1024

// Stats summarizes one build pass.
type Stats struct {
	Lines      int
	Sentences  int
	Empty      int
	Tokens     int
	Increments int
	Elapsed    time.Duration
}

// Builder drives increments into a trie from corpus lines.
type Builder struct {
	trie     trie.ITrie
	delim    rune
	order    int
	progress func(bytes int)
	logger   *log.Logger
	hashes   []hashing.WordHash
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress registers fn to be called with the byte size of every line
// consumed, including its newline.
func WithProgress(fn func(bytes int)) Option {
	return func(b *Builder) {
		b.progress = fn
	}
}

// WithLogger sets the logger for build summaries.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// New creates a builder feeding t, splitting tokens on delim.
func New(t trie.ITrie, delim rune, opts ...Option) *Builder {
	b := &Builder{
		trie:   t,
		delim:  delim,
		order:  t.Order(),
		logger: log.Default(),
		hashes: make([]hashing.WordHash, 0, 64),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build consumes r line by line in a single pass.
// It stops at the first trie error; a counter overflow is fatal to the build.
func (b *Builder) Build(r io.Reader) (Stats, error) {
	var stats Stats
	start := time.Now()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		stats.Lines++
		if err := b.addLine(line, &stats); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("line %d: %w", stats.Lines, err)
		}
		if b.progress != nil {
			b.progress(len(line) + 1)
		}
	}
	stats.Elapsed = time.Since(start)
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read corpus after line %d: %w", stats.Lines, err)
	}

	b.logger.Debugf("Built trie from %d lines (%d sentences, %d empty, %d tokens, %d increments) in %v",
		stats.Lines, stats.Sentences, stats.Empty, stats.Tokens, stats.Increments, stats.Elapsed)
	return stats, nil
}

// BuildLines is Build over an in-memory corpus.
func (b *Builder) BuildLines(lines []string) (Stats, error) {
	var stats Stats
	start := time.Now()
	for i, line := range lines {
		stats.Lines++
		if err := b.addLine(line, &stats); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}

func (b *Builder) addLine(line string, stats *Stats) error {
	tokens := ngram.Tokenize(line, b.delim)
	if len(tokens) == 0 {
		stats.Empty++
		return nil
	}
	n, err := b.AddSentence(tokens)
	stats.Sentences++
	stats.Tokens += len(tokens)
	stats.Increments += n
	return err
}

// AddSentence counts every window of one sentence and returns the number of
// increments performed.
func (b *Builder) AddSentence(tokens []string) (int, error) {
	b.hashes = b.hashes[:0]
	for _, tok := range tokens {
		b.hashes = append(b.hashes, hashing.Word(tok))
	}

	count := 0
	for p := range b.hashes {
		maxK := min(b.order, len(b.hashes)-p)
		var key hashing.LevelKey
		for k := 1; k <= maxK; k++ {
			key = hashing.Extend(key, k, b.hashes[p+k-1])
			if err := b.trie.Increment(k, key); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
