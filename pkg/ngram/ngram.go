// Package ngram splits corpus and query lines into tokens and derives the
// suffixes of a query n-gram.
package ngram

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDelimiter separates tokens in corpus and query files.
const DefaultDelimiter = ' '

// ErrShortNGram is returned for a query line with fewer tokens than the order.
var ErrShortNGram = errors.New("query line has too few tokens")

// Tokenize splits line on delim. Empty fields from leading, trailing or
// repeated delimiters are dropped, so malformed spacing never yields an
// empty token. A trailing carriage return is ignored.
func Tokenize(line string, delim rune) []string {
	line = strings.TrimSuffix(line, "\r")
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == delim
	})
}

// Extract returns the first n tokens of line, in order.
// Tokens past the n-th are ignored.
func Extract(line string, n int, delim rune) ([]string, error) {
	tokens := Tokenize(line, delim)
	if len(tokens) < n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShortNGram, len(tokens), n)
	}
	return tokens[:n:n], nil
}

// Suffixes returns the display text of tokens[i:] for every i, the full
// sequence first and the last token alone at the end. Tokens are joined by a
// single delimiter regardless of the spacing in the original line.
func Suffixes(tokens []string, delim rune) []string {
	if len(tokens) == 0 {
		return nil
	}
	text := strings.Join(tokens, string(delim))
	out := make([]string, len(tokens))
	offset := 0
	sep := len(string(delim))
	for i, tok := range tokens {
		out[i] = text[offset:]
		offset += len(tok) + sep
	}
	return out
}
