package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonAssessment/domain"
)

func TestCombinations_BinaryCountingOrder(t *testing.T) {
	combos := Combinations(InterventionCount)
	require.Len(t, combos, 128)

	assert.Equal(t, domain.FlagCombination{0, 0, 0, 0, 0, 0, 0}, combos[0])
	assert.Equal(t, domain.FlagCombination{0, 0, 0, 0, 0, 0, 1}, combos[1])
	assert.Equal(t, domain.FlagCombination{1, 0, 0, 0, 0, 0, 0}, combos[64])
	assert.Equal(t, domain.FlagCombination{1, 1, 0, 1, 1, 0, 0}, combos[108])
	assert.Equal(t, domain.FlagCombination{1, 1, 1, 1, 1, 1, 1}, combos[127])

	seen := make(map[string]struct{}, len(combos))
	for _, c := range combos {
		seen[string(c)] = struct{}{}
	}
	assert.Len(t, seen, 128, "combinations must be distinct")

	assert.Equal(t, []domain.FlagCombination{{}}, Combinations(0))
	assert.Len(t, Combinations(3), 8)
}

func TestBuildMatrix(t *testing.T) {
	f := FeatureVector{5, 6}
	combos := Combinations(2)

	m := BuildMatrix(f, combos)
	r, c := m.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)

	assert.Equal(t, []float64{5, 6, 0, 0}, m.RawRowView(0))
	assert.Equal(t, []float64{5, 6, 0, 1}, m.RawRowView(1))
	assert.Equal(t, []float64{5, 6, 1, 0}, m.RawRowView(2))
	assert.Equal(t, []float64{5, 6, 1, 1}, m.RawRowView(3))

	base := BaselineRow(f, 2)
	assert.Equal(t, m.RawRowView(0), base.RawRowView(0))
}

func TestRank_TopKAscending(t *testing.T) {
	combos := Combinations(3)
	scores := []float64{1, 7, 3, 9, 2, 8, 4, 5}

	got, err := Rank(combos, scores, 3, OrderAscending)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 5, 3}, indices(got))
	assert.Equal(t, []float64{7, 8, 9}, scoresOf(got))
}

func TestRank_Descending(t *testing.T) {
	combos := Combinations(3)
	scores := []float64{1, 7, 3, 9, 2, 8, 4, 5}

	got, err := Rank(combos, scores, 3, OrderDescending)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 1}, indices(got))
}

func TestRank_TiesFavourLaterCombinations(t *testing.T) {
	combos := Combinations(InterventionCount)
	scores := make([]float64, len(combos))
	for i := range scores {
		scores[i] = 50
	}

	asc, err := Rank(combos, scores, 3, OrderAscending)
	require.NoError(t, err)
	assert.Equal(t, []int{125, 126, 127}, indices(asc))

	desc, err := Rank(combos, scores, 3, OrderDescending)
	require.NoError(t, err)
	assert.Equal(t, []int{127, 126, 125}, indices(desc))
}

func TestRank_PartialTie(t *testing.T) {
	combos := Combinations(3)
	// 2 and 6 tie for second place; 6 comes later so it ranks higher
	scores := []float64{0, 0, 5, 0, 0, 0, 5, 9}

	got, err := Rank(combos, scores, 2, OrderAscending)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, indices(got))
}

func TestRank_NaNRanksBelowEverything(t *testing.T) {
	combos := Combinations(3)
	nan := math.NaN()
	scores := []float64{nan, math.Inf(-1), nan, 1, nan, 2, nan, nan}

	got, err := Rank(combos, scores, 3, OrderAscending)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, indices(got))

	// full ordering: NaNs first, in generator order
	all, err := Rank(combos, scores, 8, OrderAscending)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6, 7, 1, 3, 5}, indices(all))
}

func TestRank_Errors(t *testing.T) {
	combos := Combinations(3)
	scores := make([]float64, 8)

	_, err := Rank(combos, scores, 0, OrderAscending)
	assert.Error(t, err)

	_, err = Rank(combos, scores, 9, OrderAscending)
	assert.Error(t, err)

	_, err = Rank(combos, scores[:7], 3, OrderAscending)
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderAscending, o)

	o, err = ParseOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, OrderDescending, o)

	_, err = ParseOrder("best-first")
	assert.Error(t, err)
}

func TestMapper_NamesFollowCatalogOrder(t *testing.T) {
	schema := DefaultSchema()
	m := NewMapper(schema.Interventions)

	names := m.Names(domain.FlagCombination{1, 1, 0, 1, 1, 0, 0})
	assert.Equal(t, []string{
		"Life Stabilization",
		"General Employment Assistance Services",
		"Specialized Services",
		"Employment-Related Financial Supports for Job Seekers and Employers",
	}, names)

	none := m.Names(domain.FlagCombination{0, 0, 0, 0, 0, 0, 0})
	assert.NotNil(t, none, "all-off encodes as [] rather than null")
	assert.Empty(t, none)
}

func TestMapper_RoundTrip(t *testing.T) {
	m := NewMapper(DefaultSchema().Interventions)
	for _, c := range Combinations(InterventionCount) {
		back, err := m.Flags(m.Names(c))
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}

	_, err := m.Flags([]string{"Astrology"})
	assert.Error(t, err)
}

func TestMapper_Result(t *testing.T) {
	m := NewMapper([]string{"a", "b"})
	res := m.Result(1.5, []ScoredCombination{
		{Index: 1, Flags: domain.FlagCombination{0, 1}, Score: 2},
		{Index: 3, Flags: domain.FlagCombination{1, 1}, Score: 3},
	})

	assert.Equal(t, 1.5, res.Baseline)
	require.Len(t, res.Interventions, 2)
	assert.Equal(t, domain.ScoredIntervention{Score: 2, Names: []string{"b"}}, res.Interventions[0])
	assert.Equal(t, domain.ScoredIntervention{Score: 3, Names: []string{"a", "b"}}, res.Interventions[1])
}

func indices(s []ScoredCombination) []int {
	out := make([]int, len(s))
	for i, c := range s {
		out[i] = c.Index
	}
	return out
}

func scoresOf(s []ScoredCombination) []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Score
	}
	return out
}
