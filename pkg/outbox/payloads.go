package outbox

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierCreatedEvent is published after a supplier row commits.
type SupplierCreatedEvent struct {
	SupplierID           uuid.UUID       `json:"supplier_id"`
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	CommissionFlatRate   decimal.Decimal `json:"commission_flat_rate"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	StockLocationID      uuid.UUID       `json:"stock_location_id"`
	LinkedUserID         *uuid.UUID      `json:"linked_user_id,omitempty"`
}

// SupplierUpdatedEvent is published when supplier attributes change.
type SupplierUpdatedEvent struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

// SupplierDeletedEvent is published when a supplier is soft-deleted.
type SupplierDeletedEvent struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}

// SupplierWelcomeRequestedEvent asks the notification pipeline to deliver
// the welcome message to a freshly created supplier.
type SupplierWelcomeRequestedEvent struct {
	SupplierID     uuid.UUID `json:"supplier_id"`
	NotificationID uuid.UUID `json:"notification_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
}

// StockLocationCreatedEvent is published when a location is provisioned.
type StockLocationCreatedEvent struct {
	StockLocationID uuid.UUID `json:"stock_location_id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
	Name            string    `json:"name"`
	Country         string    `json:"country"`
}
