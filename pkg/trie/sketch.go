package trie

import (
	"encoding/binary"
	"fmt"

	"github.com/bastiangx/ngramserve/pkg/hashing"
	"github.com/bits-and-blooms/bloom/v3"
	boom "github.com/tylertreat/BoomFilters"
)

// SketchOptions size the per-level structures of a SketchTrie.
type SketchOptions struct {
	// Epsilon is the relative error of a count against the level total.
	Epsilon float64
	// Delta is the probability of exceeding that error.
	Delta float64
	// BloomCapacity is the expected number of distinct keys per level.
	BloomCapacity uint
	// BloomFPRate is the target false positive rate of the membership gate.
	BloomFPRate float64
}

// DefaultSketchOptions returns settings good for corpora up to a few million
// distinct n-grams per level.
func DefaultSketchOptions() SketchOptions {
	return SketchOptions{
		Epsilon:       0.0001,
		Delta:         0.01,
		BloomCapacity: 1000000,
		BloomFPRate:   0.01,
	}
}

// SketchTrie answers frequencies from a Count-Min sketch per level, gated by
// a Bloom filter so that keys never inserted read as 0 in most cases.
// Memory does not grow with the corpus. Counts never under-estimate but may
// over-estimate, so the prefix invariant of the exact backings is not
// guaranteed here.
type SketchTrie struct {
	counts  []*boom.CountMinSketch
	members []*bloom.BloomFilter
	adds    []int
	order   int
	opts    SketchOptions
}

// NewSketchTrie creates an empty sketch backed trie for orders 1..order.
func NewSketchTrie(order int, opts SketchOptions) (*SketchTrie, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	if opts.Epsilon <= 0 || opts.Epsilon >= 1 || opts.Delta <= 0 || opts.Delta >= 1 {
		return nil, fmt.Errorf("invalid sketch bounds epsilon=%v delta=%v", opts.Epsilon, opts.Delta)
	}
	if opts.BloomCapacity == 0 || opts.BloomFPRate <= 0 || opts.BloomFPRate >= 1 {
		return nil, fmt.Errorf("invalid bloom settings capacity=%d fp=%v", opts.BloomCapacity, opts.BloomFPRate)
	}

	t := &SketchTrie{
		counts:  make([]*boom.CountMinSketch, order),
		members: make([]*bloom.BloomFilter, order),
		adds:    make([]int, order),
		order:   order,
		opts:    opts,
	}
	for i := 0; i < order; i++ {
		t.counts[i] = boom.NewCountMinSketch(opts.Epsilon, opts.Delta)
		t.members[i] = bloom.NewWithEstimates(opts.BloomCapacity, opts.BloomFPRate)
	}
	return t, nil
}

func keyBytes(key hashing.LevelKey) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(key))
	return buf
}

func (t *SketchTrie) Increment(order int, key hashing.LevelKey) error {
	if order < 1 || order > t.order {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	data := keyBytes(key)
	sketch := t.counts[order-1]

	// a single cell can only exceed the counter width once the level total does
	if sketch.TotalCount() >= uint64(MaxFrequency) && sketch.Count(data) >= uint64(MaxFrequency) {
		return fmt.Errorf("%w: order %d key %#x", ErrCounterOverflow, order, uint64(key))
	}
	sketch.Add(data)
	t.members[order-1].Add(data)
	t.adds[order-1]++
	return nil
}

func (t *SketchTrie) QueryFrequency(order int, key hashing.LevelKey) Frequency {
	if order < 1 || order > t.order {
		return 0
	}
	data := keyBytes(key)
	if !t.members[order-1].Test(data) {
		return 0
	}
	n := t.counts[order-1].Count(data)
	if n > uint64(MaxFrequency) {
		return MaxFrequency
	}
	return Frequency(n)
}

func (t *SketchTrie) Order() int {
	return t.order
}

// Stats reports increments per level; the sketch does not know how many
// distinct keys it holds, "entries" is the approximate bloom cardinality.
func (t *SketchTrie) Stats() map[string]int {
	stats := map[string]int{
		"order":   t.order,
		"backend": int(BackendSketch),
	}
	total := 0
	adds := 0
	for i := 0; i < t.order; i++ {
		approx := int(t.members[i].ApproximatedSize())
		stats[levelName(i+1)] = approx
		total += approx
		adds += t.adds[i]
	}
	stats["entries"] = total
	stats["increments"] = adds
	return stats
}
