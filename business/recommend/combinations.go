package recommend

import "commonAssessment/domain"

// Combinations returns every on/off pattern over n interventions in binary
// counting order: combination i is i written with n bits, most significant bit
// first, so bit j always refers to catalog entry j. The order is fixed; ranking
// ties are broken by it.
func Combinations(n int) []domain.FlagCombination {
	if n <= 0 {
		return []domain.FlagCombination{{}}
	}
	total := 1 << n
	out := make([]domain.FlagCombination, total)
	for i := range total {
		flags := make(domain.FlagCombination, n)
		for j := range n {
			flags[j] = uint8((i >> (n - 1 - j)) & 1)
		}
		out[i] = flags
	}
	return out
}
