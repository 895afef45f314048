package trie

import (
	"fmt"

	"github.com/bastiangx/ngramserve/pkg/hashing"
)

// HashMapTrie keeps one Go map per order. levels[k-1] holds order k.
type HashMapTrie struct {
	levels []map[hashing.LevelKey]Frequency
	order  int
}

// HashMapOption tunes a HashMapTrie at construction.
type HashMapOption func(*hashMapSettings)

type hashMapSettings struct {
	capacity int
}

// WithCapacity pre-sizes every level for about n entries.
func WithCapacity(n int) HashMapOption {
	return func(s *hashMapSettings) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// NewHashMapTrie creates an empty trie for orders 1..order.
func NewHashMapTrie(order int, opts ...HashMapOption) (*HashMapTrie, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	var settings hashMapSettings
	for _, opt := range opts {
		opt(&settings)
	}

	levels := make([]map[hashing.LevelKey]Frequency, order)
	for i := range levels {
		levels[i] = make(map[hashing.LevelKey]Frequency, settings.capacity)
	}
	return &HashMapTrie{levels: levels, order: order}, nil
}

func (t *HashMapTrie) Increment(order int, key hashing.LevelKey) error {
	if order < 1 || order > t.order {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	level := t.levels[order-1]
	freq := level[key]
	if freq == MaxFrequency {
		return fmt.Errorf("%w: order %d key %#x", ErrCounterOverflow, order, uint64(key))
	}
	level[key] = freq + 1
	return nil
}

func (t *HashMapTrie) QueryFrequency(order int, key hashing.LevelKey) Frequency {
	if order < 1 || order > t.order {
		return 0
	}
	return t.levels[order-1][key]
}

func (t *HashMapTrie) Order() int {
	return t.order
}

// Len returns the number of distinct keys stored at order.
func (t *HashMapTrie) Len(order int) int {
	if order < 1 || order > t.order {
		return 0
	}
	return len(t.levels[order-1])
}

func (t *HashMapTrie) Stats() map[string]int {
	stats := map[string]int{
		"order":   t.order,
		"backend": int(BackendHashMap),
	}
	total := 0
	for i, level := range t.levels {
		stats[levelName(i+1)] = len(level)
		total += len(level)
	}
	stats["entries"] = total
	return stats
}

// Visit calls fn for every stored key of one order until fn returns false.
// Map iteration order is random.
func (t *HashMapTrie) Visit(order int, fn func(key hashing.LevelKey, freq Frequency) bool) {
	if order < 1 || order > t.order {
		return
	}
	for key, freq := range t.levels[order-1] {
		if !fn(key, freq) {
			return
		}
	}
}
