package query

import "github.com/bastiangx/ngramserve/pkg/hashing"

// maxMemoWords bounds the word hash memo; it is dropped wholesale when full.
const maxMemoWords = 1 << 16

// chainCache remembers the key chain of every suffix of the previous query.
// chains[i][k-1] is the key of prev[i:i+k]. A new query reuses the leading
// keys of each suffix for as long as its tokens match the previous query.
type chainCache struct {
	prev   []string
	chains [][]hashing.LevelKey
	memo   map[string]hashing.WordHash

	hits   int
	misses int
}

func newChainCache(order int) *chainCache {
	chains := make([][]hashing.LevelKey, order)
	for i := range chains {
		chains[i] = make([]hashing.LevelKey, 0, order-i)
	}
	return &chainCache{
		prev:   make([]string, 0, order),
		chains: chains,
		memo:   make(map[string]hashing.WordHash),
	}
}

func (c *chainCache) word(tok string) hashing.WordHash {
	if h, ok := c.memo[tok]; ok {
		return h
	}
	if len(c.memo) >= maxMemoWords {
		clear(c.memo)
	}
	h := hashing.Word(tok)
	c.memo[tok] = h
	return h
}

// update recomputes the chains for tokens, keeping every key whose prefix
// is unchanged since the previous call, and returns them.
func (c *chainCache) update(tokens []string) [][]hashing.LevelKey {
	n := len(tokens)
	if len(c.prev) != n {
		// order changed, nothing is reusable
		c.prev = c.prev[:0]
		for i := range c.chains {
			c.chains[i] = c.chains[i][:0]
		}
		if len(c.chains) != n {
			c.chains = make([][]hashing.LevelKey, n)
		}
	}

	for i := 0; i < n; i++ {
		shared := 0
		if len(c.prev) == n {
			for shared < n-i && c.prev[i+shared] == tokens[i+shared] {
				shared++
			}
		}
		shared = min(shared, len(c.chains[i]))

		chain := c.chains[i][:shared]
		c.hits += shared
		for k := shared + 1; k <= n-i; k++ {
			var parent hashing.LevelKey
			if k > 1 {
				parent = chain[k-2]
			}
			chain = append(chain, hashing.Extend(parent, k, c.word(tokens[i+k-1])))
			c.misses++
		}
		c.chains[i] = chain
	}

	c.prev = append(c.prev[:0], tokens...)
	return c.chains
}
