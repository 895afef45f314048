/*
Package hashing turns tokens and token sequences into the fixed-width keys the
trie levels are indexed by.

A single token hashes to a 32-bit WordHash. A sequence of k tokens is folded
left to right into a 64-bit LevelKey:

	Key([w1])        = uint64(Word(w1))
	Key([w1 .. wk])  = Combine(Key([w1 .. wk-1]), Word(wk))

The same functions are used when building and when querying, so a sequence
always lands on the same key at the same level.

Distinct sequences can collide on a key. Such a collision is not detected and
shows up as an inflated frequency for both sequences. Keys use twice the width
of word hashes so that the chance of this stays negligible as sequences grow.
*/
package hashing

import "math/bits"

// WordHash is the hash of a single token.
type WordHash uint32

// LevelKey identifies a whole token sequence within one trie level.
type LevelKey uint64

// FNV-1a 32 bit parameters
const (
	offset32 = 2166136261
	prime32  = 16777619
)

const (
	rotation = 27
	wordMix  = 0x9e3779b97f4a7c15
	fmix1    = 0xff51afd7ed558ccd
	fmix2    = 0xc4ceb9fe1a85ec53
)

// Word hashes a token byte by byte with FNV-1a.
func Word(token string) WordHash {
	h := uint32(offset32)
	for i := 0; i < len(token); i++ {
		h ^= uint32(token[i])
		h *= prime32
	}
	return WordHash(h)
}

// Root is the key of a single-word sequence.
func Root(h WordHash) LevelKey {
	return LevelKey(h)
}

// Combine derives the key of a sequence from the key of its prefix and the
// hash of the appended word.
// For a fixed parent distinct word hashes give distinct keys, and for a fixed
// word distinct parents give distinct keys.
func Combine(parent LevelKey, h WordHash) LevelKey {
	x := bits.RotateLeft64(uint64(parent), rotation) ^ (uint64(h) * wordMix)
	x ^= x >> 33
	x *= fmix1
	x ^= x >> 33
	x *= fmix2
	x ^= x >> 33
	return LevelKey(x)
}

// Key folds a whole token sequence into its key.
// The empty sequence has key 0, which no trie level stores.
func Key(tokens []string) LevelKey {
	if len(tokens) == 0 {
		return 0
	}
	key := Root(Word(tokens[0]))
	for _, t := range tokens[1:] {
		key = Combine(key, Word(t))
	}
	return key
}

// Chain appends the key of every prefix of tokens to dst, so that on return
// dst[len(dst)-len(tokens)+k-1] is the key of tokens[:k].
func Chain(tokens []string, dst []LevelKey) []LevelKey {
	if len(tokens) == 0 {
		return dst
	}
	key := Root(Word(tokens[0]))
	dst = append(dst, key)
	for _, t := range tokens[1:] {
		key = Combine(key, Word(t))
		dst = append(dst, key)
	}
	return dst
}

// Extend continues a key chain by one word, starting a new chain when the
// order is 1.
func Extend(parent LevelKey, order int, h WordHash) LevelKey {
	if order <= 1 {
		return Root(h)
	}
	return Combine(parent, h)
}
