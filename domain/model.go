package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ModelInfo identifies a loaded scoring model.
type ModelInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

// ModelArtifact is a serialized model as stored in the model_artifacts table
// or as a JSON file in the model directory.
type ModelArtifact struct {
	Name      string         `gorm:"column:name;primaryKey" json:"name"`
	Type      string         `gorm:"column:type;not null" json:"type"`
	Version   string         `gorm:"column:version" json:"version"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ModelArtifact) TableName() string {
	return "model_artifacts"
}
