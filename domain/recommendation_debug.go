package domain

import "encoding/json"

// Score is a float64 that encodes NaN and ±Inf as JSON null.
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonFloat(float64(s)))
}

// ScoredCombination is a single scored row of the combination matrix.
type ScoredCombination struct {
	Flags FlagCombination `json:"flags"`
	Names []string        `json:"names"`
	Score Score           `json:"score"`
	Rank  int             `json:"rank"` // 1 = best
}

type RecommendationExplanation struct {
	Model         ModelInfo            `json:"model"`
	SchemaVersion string               `json:"schema_version"`
	Features      map[string]float64   `json:"features"`
	Vector        []float64            `json:"vector"`
	Baseline      Score                `json:"baseline"`
	Result        RecommendationResult `json:"result"`
	Combinations  []ScoredCombination  `json:"combinations"`
}
