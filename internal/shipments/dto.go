package shipments

import (
	"time"

	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/enums"
)

// ShipmentDTO is the API shape for an outbound shipment.
type ShipmentDTO struct {
	ID              uuid.UUID           `json:"id"`
	StockLocationID uuid.UUID           `json:"stock_location_id"`
	Number          string              `json:"number"`
	State           enums.ShipmentState `json:"state"`
	TrackingNumber  *string             `json:"tracking_number,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreateShipmentDTO holds creation-time data for a new shipment.
type CreateShipmentDTO struct {
	StockLocationID uuid.UUID
	Number          string
	State           *enums.ShipmentState
	TrackingNumber  *string
}

// FromModel maps the persisted shipment into a DTO.
func FromModel(m *models.Shipment) *ShipmentDTO {
	if m == nil {
		return nil
	}
	return &ShipmentDTO{
		ID:              m.ID,
		StockLocationID: m.StockLocationID,
		Number:          m.Number,
		State:           m.State,
		TrackingNumber:  m.TrackingNumber,
		ShippedAt:       m.ShippedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateShipmentDTO) ToModel() *models.Shipment {
	model := &models.Shipment{
		StockLocationID: c.StockLocationID,
		Number:          c.Number,
		State:           enums.ShipmentStatePending,
		TrackingNumber:  c.TrackingNumber,
	}
	if c.State != nil {
		model.State = *c.State
	}
	return model
}
