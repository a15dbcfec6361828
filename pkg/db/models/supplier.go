package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solidmarket/marketplace-backend/pkg/types"
)

// Supplier represents a vendor organization selling through the marketplace.
type Supplier struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string          `gorm:"column:name;not null"`
	Email                string          `gorm:"column:email;not null"`
	URL                  *string         `gorm:"column:url"`
	Phone                *string         `gorm:"column:phone"`
	Address              types.Address   `gorm:"column:address;type:address_t;not null"`
	CommissionFlatRate   decimal.Decimal `gorm:"column:commission_flat_rate;type:numeric(10,2);not null"`
	CommissionPercentage decimal.Decimal `gorm:"column:commission_percentage;type:numeric(8,2);not null"`
	DeletedAt            *time.Time      `gorm:"column:deleted_at"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDeleted reports whether the supplier has been soft deleted.
func (s *Supplier) IsDeleted() bool {
	return s != nil && s.DeletedAt != nil
}
