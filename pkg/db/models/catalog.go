package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog listing. Suppliers reach products through variants.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Variant is a sellable variation of a product.
type Variant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	SKU       string    `gorm:"column:sku;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SupplierVariant links suppliers to the variants they can fulfill.
type SupplierVariant struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;index:idx_supplier_variants_pair,unique"`
	VariantID  uuid.UUID `gorm:"column:variant_id;type:uuid;not null;index:idx_supplier_variants_pair,unique"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
