package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"commonAssessment/business/model"
	"commonAssessment/domain"
)

// ModelArtifactRepository stores serialized models in "model_artifacts".
type ModelArtifactRepository struct {
	DB *gorm.DB
}

var _ model.ArtifactStore = (*ModelArtifactRepository)(nil)

func NewModelArtifactRepository(db *gorm.DB) *ModelArtifactRepository {
	return &ModelArtifactRepository{DB: db}
}

func (r *ModelArtifactRepository) ListArtifacts(ctx context.Context) ([]domain.ModelArtifact, error) {
	var arts []domain.ModelArtifact
	if err := r.DB.WithContext(ctx).Order("name").Find(&arts).Error; err != nil {
		return nil, err
	}
	return arts, nil
}

func (r *ModelArtifactRepository) UpsertArtifact(ctx context.Context, a domain.ModelArtifact) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"type",
				"version",
				"payload",
				"updated_at",
			}),
		}).
		Create(&a).Error
}
