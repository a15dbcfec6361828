package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to suppliers.
type Notification struct {
	ID         uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null;index"`
	Type       enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title      string                 `gorm:"type:text;not null"`
	Message    string                 `gorm:"type:text;not null"`
	ReadAt     *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt  time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
