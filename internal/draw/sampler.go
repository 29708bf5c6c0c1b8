package draw

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate is one entry in a weighted draw. A weight of 0 is legal and gives
// the candidate no chance of selection unless the all-candidates shortcut applies.
type Candidate struct {
	ID     primitive.ObjectID
	Weight int64
}

// Pick selects min(maxWinners, len(candidates)) distinct winners by weighted
// sampling without replacement.
//
// When maxWinners covers the whole field every candidate wins and no randomness
// is consumed. Otherwise each round draws a uniform value in [0,1), scales it by
// the remaining total weight, binary-searches the running prefix sums for the
// first entry >= the target, and compacts the picked candidate out of the pool.
// Compaction is O(remaining) per round; maxWinners is small relative to the
// field in practice.
func Pick(maxWinners int, candidates []Candidate, src Source) []primitive.ObjectID {
	if maxWinners <= 0 || len(candidates) == 0 {
		return nil
	}
	if maxWinners >= len(candidates) {
		winners := make([]primitive.ObjectID, len(candidates))
		for i, c := range candidates {
			winners[i] = c.ID
		}
		return winners
	}

	ids := make([]primitive.ObjectID, len(candidates))
	prefix := make([]int64, len(candidates))
	var running int64
	for i, c := range candidates {
		running += c.Weight
		ids[i] = c.ID
		prefix[i] = running
	}

	winners := make([]primitive.ObjectID, 0, maxWinners)
	live := len(candidates)
	for round := 0; round < maxWinners; round++ {
		target := src.Float64() * float64(prefix[live-1])
		idx := sort.Search(live, func(i int) bool {
			return float64(prefix[i]) >= target
		})
		if idx == live {
			idx = live - 1
		}
		winners = append(winners, ids[idx])

		weight := prefix[idx]
		if idx > 0 {
			weight -= prefix[idx-1]
		}
		copy(ids[idx:live-1], ids[idx+1:live])
		for j := idx; j < live-1; j++ {
			prefix[j] = prefix[j+1] - weight
		}
		live--
	}
	return winners
}
