package race

import (
	"fmt"
	"math/rand"
	"sort"
)

// SelectRound draws k distinct competitor ids uniformly without replacement
// from the roster. The returned order carries no meaning; callers that need a
// stable order must sort.
func SelectRound(rng *rand.Rand, roster map[int]Competitor, k int) []int {
	if k > len(roster) {
		panic(fmt.Sprintf("race: cannot select %d competitors from a roster of %d", k, len(roster)))
	}
	ids := make([]int, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	// Map iteration order is random; sort first so the draw depends only on
	// the engine's RNG stream.
	sort.Ints(ids)
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids[:k]
}
