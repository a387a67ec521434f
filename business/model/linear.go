package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression scores rows as intercept + x·coef.
type LinearRegression struct {
	name      string
	intercept float64
	coef      *mat.VecDense
}

func NewLinearRegression(name string, intercept float64, coef []float64) *LinearRegression {
	c := make([]float64, len(coef))
	copy(c, coef)
	return &LinearRegression{
		name:      name,
		intercept: intercept,
		coef:      mat.NewVecDense(len(c), c),
	}
}

func (m *LinearRegression) NumFeatures() int {
	return m.coef.Len()
}

func (m *LinearRegression) Predict(x mat.Matrix) ([]float64, error) {
	rows, err := checkShape(m.name, x, m.NumFeatures())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return []float64{}, nil
	}

	var y mat.VecDense
	y.MulVec(x, m.coef)

	out := make([]float64, rows)
	for i := range rows {
		out[i] = y.AtVec(i) + m.intercept
	}
	return out, nil
}

// LogisticRegression scores rows as scale * sigmoid(intercept + x·coef).
type LogisticRegression struct {
	linear *LinearRegression
	scale  float64
}

func NewLogisticRegression(name string, intercept float64, coef []float64, scale float64) *LogisticRegression {
	if scale == 0 {
		scale = 1
	}
	return &LogisticRegression{
		linear: NewLinearRegression(name, intercept, coef),
		scale:  scale,
	}
}

func (m *LogisticRegression) NumFeatures() int {
	return m.linear.NumFeatures()
}

func (m *LogisticRegression) Predict(x mat.Matrix) ([]float64, error) {
	z, err := m.linear.Predict(x)
	if err != nil {
		return nil, err
	}
	for i, v := range z {
		z[i] = m.scale / (1 + math.Exp(-v))
	}
	return z, nil
}
