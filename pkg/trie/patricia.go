package trie

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bastiangx/ngramserve/pkg/hashing"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// PatriciaTrie stores each level in a patricia tree keyed by the
// big-endian bytes of the level key. Counts match HashMapTrie exactly,
// at a higher cost per lookup and a smaller footprint for dense key spaces.
type PatriciaTrie struct {
	levels []*patricia.Trie
	sizes  []int
	order  int
}

// NewPatriciaTrie creates an empty patricia backed trie for orders 1..order.
func NewPatriciaTrie(order int) (*PatriciaTrie, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	levels := make([]*patricia.Trie, order)
	for i := range levels {
		levels[i] = patricia.NewTrie()
	}
	return &PatriciaTrie{levels: levels, sizes: make([]int, order), order: order}, nil
}

var errStopVisit = errors.New("stop visit")

func keyPrefix(key hashing.LevelKey) patricia.Prefix {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key))
	return patricia.Prefix(buf[:])
}

func (t *PatriciaTrie) Increment(order int, key hashing.LevelKey) error {
	if order < 1 || order > t.order {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	level := t.levels[order-1]
	prefix := keyPrefix(key)

	item := level.Get(prefix)
	if item == nil {
		level.Insert(prefix, Frequency(1))
		t.sizes[order-1]++
		return nil
	}
	freq := item.(Frequency)
	if freq == MaxFrequency {
		return fmt.Errorf("%w: order %d key %#x", ErrCounterOverflow, order, uint64(key))
	}
	level.Set(prefix, freq+1)
	return nil
}

func (t *PatriciaTrie) QueryFrequency(order int, key hashing.LevelKey) Frequency {
	if order < 1 || order > t.order {
		return 0
	}
	item := t.levels[order-1].Get(keyPrefix(key))
	if item == nil {
		return 0
	}
	freq, ok := item.(Frequency)
	if !ok {
		log.Errorf("Unknown item type: %T at order %d", item, order)
		return 0
	}
	return freq
}

func (t *PatriciaTrie) Order() int {
	return t.order
}

func (t *PatriciaTrie) Stats() map[string]int {
	stats := map[string]int{
		"order":   t.order,
		"backend": int(BackendPatricia),
	}
	total := 0
	for i, n := range t.sizes {
		stats[levelName(i+1)] = n
		total += n
	}
	stats["entries"] = total
	return stats
}

// Visit walks the keys of one order in ascending key order until fn
// returns false.
func (t *PatriciaTrie) Visit(order int, fn func(key hashing.LevelKey, freq Frequency) bool) {
	if order < 1 || order > t.order {
		return
	}
	err := t.levels[order-1].Visit(func(p patricia.Prefix, item patricia.Item) error {
		if len(p) != 8 {
			return nil
		}
		if !fn(hashing.LevelKey(binary.BigEndian.Uint64(p)), item.(Frequency)) {
			return errStopVisit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopVisit) {
		log.Errorf("Error visiting level %d: %v", order, err)
	}
}
