package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/pkg/enums"
)

// Shipment is an outbound parcel dispatched from a single stock location.
type Shipment struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StockLocationID uuid.UUID           `gorm:"column:stock_location_id;type:uuid;not null;index"`
	Number          string              `gorm:"column:number;not null;uniqueIndex"`
	State           enums.ShipmentState `gorm:"column:state;type:shipment_state;not null;default:'pending'"`
	TrackingNumber  *string             `gorm:"column:tracking_number"`
	ShippedAt       *time.Time          `gorm:"column:shipped_at"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
