package stocklocations

import (
	"time"

	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
)

// StockLocationDTO is the API shape for a supplier's inventory location.
type StockLocationDTO struct {
	ID         uuid.UUID `json:"id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateStockLocationDTO holds creation-time data for a new location.
type CreateStockLocationDTO struct {
	SupplierID uuid.UUID
	Name       string
	Country    string
	Active     *bool
}

// FromModel maps the persisted location into a DTO.
func FromModel(m *models.StockLocation) *StockLocationDTO {
	if m == nil {
		return nil
	}
	return &StockLocationDTO{
		ID:         m.ID,
		SupplierID: m.SupplierID,
		Name:       m.Name,
		Active:     m.Active,
		Country:    m.Country,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateStockLocationDTO) ToModel() *models.StockLocation {
	model := &models.StockLocation{
		SupplierID: c.SupplierID,
		Name:       c.Name,
		Active:     false,
		Country:    c.Country,
	}
	if c.Active != nil {
		model.Active = *c.Active
	}
	return model
}
