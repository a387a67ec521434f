package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commonAssessment/business/recommend"
	"commonAssessment/domain"
)

// ClientRepository reads assessment answers from the "clients" table.
type ClientRepository struct {
	DB *gorm.DB
}

var _ recommend.ClientRepository = (*ClientRepository)(nil)

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) GetAttributes(ctx context.Context, clientID uint) (map[string]any, error) {
	var row domain.ClientProfile

	err := r.DB.WithContext(ctx).
		Where("id = ?", clientID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	if row.Attributes == nil {
		return map[string]any{}, nil
	}
	return map[string]any(row.Attributes), nil
}
