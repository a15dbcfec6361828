package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLocation is an inventory location owned by exactly one supplier.
type StockLocation struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	Active     bool      `gorm:"column:active;not null;default:false"`
	Country    string    `gorm:"column:country;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
