package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FlagCombination holds one on/off bit per intervention catalog entry.
type FlagCombination []uint8

// IsZero reports whether no intervention is switched on.
func (f FlagCombination) IsZero() bool {
	for _, b := range f {
		if b != 0 {
			return false
		}
	}
	return true
}

// MarshalJSON writes the bits as numbers; a plain []uint8 would become base64.
func (f FlagCombination) MarshalJSON() ([]byte, error) {
	bits := make([]int, len(f))
	for i, b := range f {
		bits[i] = int(b)
	}
	return json.Marshal(bits)
}

// ScoredIntervention is one recommended combination resolved to names.
// It serialises as a two element array: [score, [names...]].
type ScoredIntervention struct {
	Score float64
	Names []string
}

func (s ScoredIntervention) MarshalJSON() ([]byte, error) {
	names := s.Names
	if names == nil {
		names = []string{}
	}
	return json.Marshal([]any{jsonFloat(s.Score), names})
}

func (s *ScoredIntervention) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var score *float64
	if err := json.Unmarshal(raw[0], &score); err != nil {
		return err
	}
	if score == nil {
		s.Score = math.NaN()
	} else {
		s.Score = *score
	}
	return json.Unmarshal(raw[1], &s.Names)
}

type RecommendationResult struct {
	Baseline      float64              `json:"-"`
	Interventions []ScoredIntervention `json:"interventions"`
}

func (r RecommendationResult) MarshalJSON() ([]byte, error) {
	interventions := r.Interventions
	if interventions == nil {
		interventions = []ScoredIntervention{}
	}
	return json.Marshal(struct {
		Baseline      *float64             `json:"baseline"`
		Interventions []ScoredIntervention `json:"interventions"`
	}{
		Baseline:      jsonFloat(r.Baseline),
		Interventions: interventions,
	})
}

func (r *RecommendationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Baseline      *float64             `json:"baseline"`
		Interventions []ScoredIntervention `json:"interventions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Baseline = math.NaN()
	if raw.Baseline != nil {
		r.Baseline = *raw.Baseline
	}
	r.Interventions = raw.Interventions
	return nil
}

// jsonFloat maps non-finite values to null; encoding/json rejects them.
func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// RecommendationLog is the persisted record of one recommendation run.
type RecommendationLog struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ClientID      uint           `gorm:"column:client_id;index" json:"client_id"`
	ModelName     string         `gorm:"column:model_name;not null" json:"model_name"`
	ModelVersion  string         `gorm:"column:model_version" json:"model_version"`
	SchemaVersion string         `gorm:"column:schema_version" json:"schema_version"`
	Baseline      float64        `gorm:"column:baseline" json:"baseline"`
	Result        datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	TraceID       string         `gorm:"column:trace_id" json:"trace_id"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationLog) TableName() string {
	return "recommendation_results"
}
