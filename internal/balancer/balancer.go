// Package balancer splits a ten player pool into two teams of five with the
// smallest possible rating-sum difference.
package balancer

import (
	"fmt"
	"math"

	"mmr-balancer/internal/domain"

	"gonum.org/v1/gonum/stat/combin"
)

// Balance tries every five player subset of pool, in lexicographic order of the
// pool indices, and keeps the first one whose rating sum is closest to half of
// the total. Team A is that subset, team B its complement, both in pool order.
func Balance(pool []domain.Player) (domain.Lineup, error) {
	if len(pool) != domain.PoolSize {
		return domain.Lineup{}, fmt.Errorf("%w: got %d", domain.ErrInvalidPoolSize, len(pool))
	}

	// Subset sums and the total are both accumulated left to right, so a
	// subset and its complement tie exactly and the earlier one is kept.
	ratings := make([]float64, len(pool))
	var total float64
	for i, p := range pool {
		ratings[i] = p.Rating
		total += p.Rating
	}
	target := total / 2

	best := make([]int, domain.TeamSize)
	bestDiff := math.Inf(1)
	combo := make([]int, domain.TeamSize)

	gen := combin.NewCombinationGenerator(len(pool), domain.TeamSize)
	for gen.Next() {
		gen.Combination(combo)
		var sum float64
		for _, idx := range combo {
			sum += ratings[idx]
		}
		diff := math.Abs(sum - target)
		if diff < bestDiff {
			bestDiff = diff
			copy(best, combo)
			if diff == 0 {
				break
			}
		}
	}

	return split(pool, best), nil
}

func split(pool []domain.Player, picked []int) domain.Lineup {
	inA := make([]bool, len(pool))
	for _, idx := range picked {
		inA[idx] = true
	}
	lineup := domain.Lineup{
		TeamA: make([]domain.Player, 0, domain.TeamSize),
		TeamB: make([]domain.Player, 0, domain.TeamSize),
	}
	for i, p := range pool {
		if inA[i] {
			lineup.TeamA = append(lineup.TeamA, p)
		} else {
			lineup.TeamB = append(lineup.TeamB, p)
		}
	}
	return lineup
}
