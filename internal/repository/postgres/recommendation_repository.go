package postgres

import (
	"context"

	"gorm.io/gorm"

	"commonAssessment/business/recommend"
	"commonAssessment/domain"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

var _ recommend.ResultRepository = (*RecommendationRepository)(nil)

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

// SaveResult appends one row; results are never updated in place.
func (r *RecommendationRepository) SaveResult(ctx context.Context, log domain.RecommendationLog) error {
	return r.DB.WithContext(ctx).Create(&log).Error
}

// ListByClient returns the newest results for a client first.
func (r *RecommendationRepository) ListByClient(ctx context.Context, clientID uint, limit int) ([]domain.RecommendationLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []domain.RecommendationLog
	err := r.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
