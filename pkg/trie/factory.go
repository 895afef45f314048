package trie

import (
	"fmt"
	"strings"
)

// Backend selects an ITrie implementation.
type Backend int

const (
	BackendHashMap Backend = iota
	BackendPatricia
	BackendSketch
)

var backendNames = map[Backend]string{
	BackendHashMap:  "hashmap",
	BackendPatricia: "patricia",
	BackendSketch:   "sketch",
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend maps a config or flag value to a Backend.
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "map" {
		return BackendHashMap, nil
	}
	for b, n := range backendNames {
		if n == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Options describe a trie to construct with New.
type Options struct {
	Backend  Backend
	Order    int
	Capacity int
	Sketch   SketchOptions
}

// New constructs the trie described by opts.
func New(opts Options) (ITrie, error) {
	var (
		t   ITrie
		err error
	)
	switch opts.Backend {
	case BackendHashMap:
		t, err = asTrie(NewHashMapTrie(opts.Order, WithCapacity(opts.Capacity)))
	case BackendPatricia:
		t, err = asTrie(NewPatriciaTrie(opts.Order))
	case BackendSketch:
		t, err = asTrie(NewSketchTrie(opts.Order, opts.Sketch))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s trie: %w", opts.Backend, err)
	}
	return t, nil
}

// asTrie drops the concrete type so a failed constructor yields a nil interface.
func asTrie[T ITrie](t T, err error) (ITrie, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}
