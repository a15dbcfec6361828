package suppliers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/types"
)

// SupplierDTO exposes supplier data in API responses.
type SupplierDTO struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	URL                  *string         `json:"url,omitempty"`
	Phone                *string         `json:"phone,omitempty"`
	Address              types.Address   `json:"address"`
	CommissionFlatRate   decimal.Decimal `json:"commission_flat_rate"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	DeletedAt            *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// CreateSupplierInput captures creation-time data for a new supplier.
type CreateSupplierInput struct {
	Name    string
	Email   string
	URL     *string
	Phone   *string
	Address types.Address

	// Omitted overrides fall back to the marketplace defaults.
	CommissionFlatRate   *decimal.Decimal
	CommissionPercentage *decimal.Decimal

	// UserID pre-attaches a known account and skips the email lookup.
	UserID *uuid.UUID
}

// UpdateSupplierInput captures the allowed supplier fields for mutation.
type UpdateSupplierInput struct {
	Name                 *string
	Email                *string
	URL                  *string
	Phone                *string
	Address              *types.Address
	CommissionFlatRate   *decimal.Decimal
	CommissionPercentage *decimal.Decimal
}

// FromModel maps the persisted supplier into a DTO.
func FromModel(m *models.Supplier) *SupplierDTO {
	if m == nil {
		return nil
	}
	return &SupplierDTO{
		ID:                   m.ID,
		Name:                 m.Name,
		Email:                m.Email,
		URL:                  m.URL,
		Phone:                m.Phone,
		Address:              m.Address,
		CommissionFlatRate:   m.CommissionFlatRate,
		CommissionPercentage: m.CommissionPercentage,
		DeletedAt:            m.DeletedAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// CreateResult reports what the creation flow produced beyond the supplier row.
type CreateResult struct {
	Supplier      *SupplierDTO `json:"supplier"`
	StockLocation uuid.UUID    `json:"stock_location_id"`
	LinkedUserID  *uuid.UUID   `json:"linked_user_id,omitempty"`
	WelcomeSent   bool         `json:"welcome_sent"`
}
