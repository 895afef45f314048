package hashing

import (
	"fmt"
	"testing"
)

func TestWordKnownValues(t *testing.T) {
	// reference FNV-1a 32 values
	testCases := []struct {
		input    string
		expected WordHash
	}{
		{"", 0x811c9dc5},
		{"a", 0xe40c292c},
		{"foobar", 0xbf9cf968},
	}

	for _, tc := range testCases {
		if got := Word(tc.input); got != tc.expected {
			t.Errorf("Word(%q) = %#x, want %#x", tc.input, got, tc.expected)
		}
	}
}

func TestWordCaseSensitive(t *testing.T) {
	if Word("The") == Word("the") {
		t.Error("expected different hashes for differently cased tokens")
	}
}

func TestWordFewCollisions(t *testing.T) {
	seen := make(map[WordHash]string)
	collisions := 0
	for i := 0; i < 50000; i++ {
		w := fmt.Sprintf("w%d", i)
		h := Word(w)
		if other, ok := seen[h]; ok && other != w {
			collisions++
		}
		seen[h] = w
	}
	if collisions > 2 {
		t.Errorf("too many word hash collisions: %d", collisions)
	}
}

func TestKeyBaseCase(t *testing.T) {
	for _, w := range []string{"a", ".", "hello", ""} {
		if got, want := Key([]string{w}), LevelKey(Word(w)); got != want {
			t.Errorf("Key([%q]) = %#x, want zero-extended %#x", w, got, want)
		}
	}
}

func TestKeyMatchesCombineChain(t *testing.T) {
	tokens := []string{"mortgages", "had", "lured", "borrowers", "and"}
	key := Root(Word(tokens[0]))
	for k := 2; k <= len(tokens); k++ {
		key = Combine(key, Word(tokens[k-1]))
		if got := Key(tokens[:k]); got != key {
			t.Errorf("Key(%v) = %#x, want %#x", tokens[:k], got, key)
		}
	}
}

func TestCombineSensitivity(t *testing.T) {
	base := Key([]string{"a", "b"})

	if Combine(base, Word("c")) == Combine(base, Word("d")) {
		t.Error("changing the appended word did not change the key")
	}
	if Combine(base, Word("c")) == Combine(Key([]string{"b", "a"}), Word("c")) {
		t.Error("changing the prefix order did not change the key")
	}
	// low-order xor of equal pairs would cancel out
	if Key([]string{"x", "x"}) == Key([]string{"y", "y"}) {
		t.Error("repeated words collapsed to the same key")
	}
}

func TestCombineUsesHighBits(t *testing.T) {
	var high uint64
	for i := 0; i < 64; i++ {
		high |= uint64(Key([]string{"w", fmt.Sprint(i)})) >> 32
	}
	if high == 0 {
		t.Error("combined keys never set the upper 32 bits")
	}
}

func TestChain(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}
	chain := Chain(tokens, nil)
	if len(chain) != len(tokens) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(tokens))
	}
	for k := 1; k <= len(tokens); k++ {
		if chain[k-1] != Key(tokens[:k]) {
			t.Errorf("chain[%d] does not match Key of prefix %v", k-1, tokens[:k])
		}
	}

	prefix := []LevelKey{42}
	chain = Chain(tokens[:2], prefix)
	if len(chain) != 3 || chain[0] != 42 || chain[2] != Key(tokens[:2]) {
		t.Errorf("Chain did not append to dst: %v", chain)
	}

	if got := Chain(nil, nil); len(got) != 0 {
		t.Errorf("Chain of empty sequence = %v, want empty", got)
	}
}

func TestExtend(t *testing.T) {
	h := Word("z")
	if Extend(12345, 1, h) != Root(h) {
		t.Error("Extend at order 1 must start a new chain")
	}
	if Extend(12345, 3, h) != Combine(12345, h) {
		t.Error("Extend above order 1 must combine")
	}
}

func BenchmarkKey5(b *testing.B) {
	tokens := []string{"mortgages", "had", "lured", "borrowers", "and"}
	for i := 0; i < b.N; i++ {
		_ = Key(tokens)
	}
}
