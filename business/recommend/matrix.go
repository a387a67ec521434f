package recommend

import (
	"gonum.org/v1/gonum/mat"

	"commonAssessment/domain"
)

// BuildMatrix lays out one scoring row per combination: the client features
// followed by the combination flags. Row order follows combos.
func BuildMatrix(f FeatureVector, combos []domain.FlagCombination) *mat.Dense {
	width := len(f)
	if len(combos) > 0 {
		width += len(combos[0])
	}
	m := mat.NewDense(len(combos), width, nil)
	row := make([]float64, width)
	copy(row, f)
	for i, c := range combos {
		for j, b := range c {
			row[len(f)+j] = float64(b)
		}
		m.SetRow(i, row)
	}
	return m
}

// BaselineRow is the single row scoring the client with every intervention off.
func BaselineRow(f FeatureVector, interventions int) *mat.Dense {
	row := make([]float64, len(f)+interventions)
	copy(row, f)
	return mat.NewDense(1, len(row), row)
}
