package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	dbtypes "github.com/solidmarket/marketplace-backend/pkg/db/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	IsActive    bool        `json:"is_active"`
	SystemRole  *string     `json:"system_role,omitempty"`
	SupplierIDs []uuid.UUID `json:"supplier_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	SystemRole   *string
	SupplierIDs  []uuid.UUID
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		SystemRole:  u.SystemRole,
		SupplierIDs: append([]uuid.UUID(nil), []uuid.UUID(u.SupplierIDs)...),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	supplierIDs := c.SupplierIDs
	if supplierIDs == nil {
		supplierIDs = []uuid.UUID{}
	} else {
		supplierIDs = append([]uuid.UUID(nil), supplierIDs...)
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		IsActive:     isActive,
		SystemRole:   c.SystemRole,
		SupplierIDs:  dbtypes.UUIDArray(supplierIDs),
	}
}
