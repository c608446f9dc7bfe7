package lottery

import "math/rand"

// Select draws k candidates uniformly at random without replacement using a
// partial Fisher-Yates shuffle. The input slice is not modified. Callers pass
// candidates in a deterministic order so a seeded rng reproduces the draw.
func Select(candidates []string, k int, rng *rand.Rand) []string {
	if k <= 0 || len(candidates) == 0 {
		return []string{}
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	pool := make([]string, len(candidates))
	copy(pool, candidates)

	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
