// Package trie stores n-gram frequencies, one flat level per order, keyed by
// the composite keys from package hashing.
package trie

import (
	"errors"
	"fmt"

	"github.com/bastiangx/ngramserve/pkg/hashing"
)

// Frequency counts the occurrences of one sequence at one order.
// 16 bit counters overflow on large corpora, do not narrow it.
type Frequency uint32

const (
	// DefaultOrder is the n-gram order of the query tool.
	DefaultOrder = 5
	// MaxOrder bounds the order any backing accepts.
	MaxOrder = 8
	// MaxFrequency is the largest representable count.
	MaxFrequency = Frequency(^uint32(0))
)

var (
	ErrInvalidOrder    = errors.New("order out of range")
	ErrCounterOverflow = errors.New("frequency counter overflow")
	ErrUnknownBackend  = errors.New("unknown trie backend")
)

// ITrie defines the interface every frequency store satisfies, so the
// builder and the query engine work against any backing.
type ITrie interface {
	// Increment adds one occurrence of key at order, creating it with 1 if absent.
	// Fails only for an order outside 1..Order() or when the counter would wrap.
	Increment(order int, key hashing.LevelKey) error

	// QueryFrequency returns the count of key at order, 0 when never seen.
	QueryFrequency(order int, key hashing.LevelKey) Frequency

	// Order returns the maximum n-gram order the trie was built for.
	Order() int

	// Stats returns entry counts per level and backend specific counters.
	Stats() map[string]int
}

// ValidateOrder checks an order bound for construction.
func ValidateOrder(order int) error {
	if order < 1 || order > MaxOrder {
		return fmt.Errorf("%w: %d (expected 1..%d)", ErrInvalidOrder, order, MaxOrder)
	}
	return nil
}

func levelName(order int) string {
	return fmt.Sprintf("level_%d", order)
}
