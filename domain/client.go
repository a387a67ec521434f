package domain

import "gorm.io/datatypes"

// ClientProfile is the read-only view of a stored client that the
// recommendation engine consumes. Attributes holds the raw assessment answers
// keyed by feature name.
type ClientProfile struct {
	ID         uint              `gorm:"column:id;primaryKey" json:"id"`
	Attributes datatypes.JSONMap `gorm:"column:attributes;type:jsonb" json:"attributes"`
}

func (ClientProfile) TableName() string {
	return "clients"
}
