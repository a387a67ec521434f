package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"commonAssessment/domain"
)

// Predictor is a loaded regression model. Implementations are immutable after
// construction and safe for concurrent use.
type Predictor interface {
	// Predict returns one score per row of x.
	Predict(x mat.Matrix) ([]float64, error)
	// NumFeatures is the column count the model was trained on.
	NumFeatures() int
}

// checkShape rejects matrices whose width differs from what the model expects.
func checkShape(name string, x mat.Matrix, want int) (int, error) {
	rows, cols := x.Dims()
	if cols != want {
		return 0, &domain.PredictionError{
			Model:  name,
			Reason: fmt.Sprintf("matrix has %d columns, model expects %d", cols, want),
		}
	}
	return rows, nil
}
