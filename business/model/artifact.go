package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"commonAssessment/domain"
)

const (
	TypeLinearRegression   = "linear_regression"
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
)

// payload is the JSON body of a model artifact. Which fields are used depends
// on the artifact type.
type payload struct {
	NumFeatures  int         `json:"n_features"`
	Intercept    float64     `json:"intercept"`
	Coefficients []float64   `json:"coefficients"`
	Scale        float64     `json:"scale"`
	Tree         *TreeNodes  `json:"tree"`
	Trees        []TreeNodes `json:"trees"`
}

// Factory builds a Predictor from a decoded artifact payload.
type Factory func(name string, p payload) (Predictor, error)

var factories = map[string]Factory{
	TypeLinearRegression: func(name string, p payload) (Predictor, error) {
		if len(p.Coefficients) == 0 {
			return nil, fmt.Errorf("linear model %q has no coefficients", name)
		}
		return NewLinearRegression(name, p.Intercept, p.Coefficients), nil
	},
	TypeLogisticRegression: func(name string, p payload) (Predictor, error) {
		if len(p.Coefficients) == 0 {
			return nil, fmt.Errorf("logistic model %q has no coefficients", name)
		}
		return NewLogisticRegression(name, p.Intercept, p.Coefficients, p.Scale), nil
	},
	TypeDecisionTree: func(name string, p payload) (Predictor, error) {
		if p.Tree == nil {
			return nil, fmt.Errorf("decision tree %q has no tree", name)
		}
		return NewDecisionTree(name, p.NumFeatures, *p.Tree)
	},
	TypeRandomForest: func(name string, p payload) (Predictor, error) {
		return NewRandomForest(name, p.NumFeatures, p.Trees)
	},
}

// SupportedTypes lists the artifact types Build understands.
func SupportedTypes() []string {
	out := make([]string, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Build decodes an artifact into a ready-to-use Predictor.
func Build(a domain.ModelArtifact) (Predictor, error) {
	factory, ok := factories[a.Type]
	if !ok {
		return nil, fmt.Errorf("model %q: unsupported type %q", a.Name, a.Type)
	}

	var p payload
	if err := json.Unmarshal(a.Payload, &p); err != nil {
		return nil, fmt.Errorf("model %q: decode payload: %w", a.Name, err)
	}

	pred, err := factory(a.Name, p)
	if err != nil {
		return nil, err
	}
	return pred, nil
}
