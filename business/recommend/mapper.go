package recommend

import (
	"fmt"

	"commonAssessment/domain"
)

// Mapper translates flag combinations to and from intervention names.
type Mapper struct {
	catalog []string
	index   map[string]int
}

func NewMapper(catalog []string) *Mapper {
	index := make(map[string]int, len(catalog))
	for i, name := range catalog {
		index[name] = i
	}
	return &Mapper{catalog: catalog, index: index}
}

// Names lists the catalog entries whose bit is set, in catalog order.
func (m *Mapper) Names(flags domain.FlagCombination) []string {
	if flags.IsZero() {
		return []string{}
	}
	names := make([]string, 0, len(flags))
	for i, b := range flags {
		if b == 1 && i < len(m.catalog) {
			names = append(names, m.catalog[i])
		}
	}
	return names
}

// Flags is the inverse of Names.
func (m *Mapper) Flags(names []string) (domain.FlagCombination, error) {
	flags := make(domain.FlagCombination, len(m.catalog))
	for _, n := range names {
		i, ok := m.index[n]
		if !ok {
			return nil, fmt.Errorf("unknown intervention %q", n)
		}
		flags[i] = 1
	}
	return flags, nil
}

// Result assembles the response for a baseline score and ranked combinations.
func (m *Mapper) Result(baseline float64, ranked []ScoredCombination) domain.RecommendationResult {
	out := domain.RecommendationResult{
		Baseline:      baseline,
		Interventions: make([]domain.ScoredIntervention, 0, len(ranked)),
	}
	for _, r := range ranked {
		out.Interventions = append(out.Interventions, domain.ScoredIntervention{
			Score: r.Score,
			Names: m.Names(r.Flags),
		})
	}
	return out
}
