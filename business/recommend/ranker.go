package recommend

import (
	"fmt"
	"math"
	"slices"

	"commonAssessment/domain"
)

// Order controls how the selected top-K combinations are returned.
type Order string

const (
	// OrderAscending returns the K best combinations lowest score first, best
	// last. This is the historical wire order and the default.
	OrderAscending Order = "asc"
	// OrderDescending returns the best combination first.
	OrderDescending Order = "desc"
)

func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderAscending:
		return OrderAscending, nil
	case OrderDescending:
		return OrderDescending, nil
	default:
		return "", fmt.Errorf("invalid result order %q (want asc or desc)", s)
	}
}

// ScoredCombination is a flag combination with its predicted score. Index is
// the combination's position in generator order.
type ScoredCombination struct {
	Index int
	Flags domain.FlagCombination
	Score float64
}

// scoreLess orders NaN below every other value, including -Inf.
func scoreLess(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return !math.IsNaN(b)
	case math.IsNaN(b):
		return false
	default:
		return a < b
	}
}

// SortAscending stably sorts scored combinations by score, lowest first. Equal
// scores (and NaNs) keep generator order, so among ties the combination that
// comes later in generator order ends up closer to the top.
func SortAscending(scored []ScoredCombination) {
	slices.SortStableFunc(scored, func(a, b ScoredCombination) int {
		switch {
		case scoreLess(a.Score, b.Score):
			return -1
		case scoreLess(b.Score, a.Score):
			return 1
		default:
			return 0
		}
	})
}

// Pair zips combinations with their scores in generator order.
func Pair(combos []domain.FlagCombination, scores []float64) ([]ScoredCombination, error) {
	if len(combos) != len(scores) {
		return nil, fmt.Errorf("%d scores for %d combinations", len(scores), len(combos))
	}
	out := make([]ScoredCombination, len(combos))
	for i := range combos {
		out[i] = ScoredCombination{Index: i, Flags: combos[i], Score: scores[i]}
	}
	return out, nil
}

// Rank selects the k highest scoring combinations. It sorts ascending and keeps
// the tail, which is where the stable-sort tie-break comes from; the result is
// then returned in the requested order.
func Rank(combos []domain.FlagCombination, scores []float64, k int, order Order) ([]ScoredCombination, error) {
	scored, err := Pair(combos, scores)
	if err != nil {
		return nil, err
	}
	if k <= 0 || k > len(scored) {
		return nil, fmt.Errorf("top-k %d out of range for %d combinations", k, len(scored))
	}

	SortAscending(scored)
	top := slices.Clone(scored[len(scored)-k:])
	if order == OrderDescending {
		slices.Reverse(top)
	}
	return top, nil
}
