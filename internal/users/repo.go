package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	dbtypes "github.com/solidmarket/marketplace-backend/pkg/db/types"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateSupplierIDs overwrites the user's supplier_ids array.
func (r *Repository) UpdateSupplierIDs(ctx context.Context, id uuid.UUID, supplierIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("supplier_ids", toUUIDArray(supplierIDs)).Error
}

// ListBySupplier returns every user whose supplier_ids array carries the id.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("supplier_ids @> ?", dbtypes.UUIDArray{supplierID}).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CreateWithTx inserts a new user inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateUserDTO) (*models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmailWithTx retrieves the user inside the provided transaction.
func (r *Repository) FindByEmailWithTx(tx *gorm.DB, email string) (*models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var user models.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithTx loads a user by their UUID inside the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListBySupplierWithTx runs the supplier_ids containment query inside the transaction.
func (r *Repository) ListBySupplierWithTx(tx *gorm.DB, supplierID uuid.UUID) ([]models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var rows []models.User
	err := tx.Where("supplier_ids @> ?", dbtypes.UUIDArray{supplierID}).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// UpdateSupplierIDsWithTx overwrites the supplier_ids array inside the transaction.
func (r *Repository) UpdateSupplierIDsWithTx(tx *gorm.DB, id uuid.UUID, supplierIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("supplier_ids", toUUIDArray(supplierIDs)).Error
}

func toUUIDArray(ids []uuid.UUID) dbtypes.UUIDArray {
	if ids == nil {
		return dbtypes.UUIDArray{}
	}
	return dbtypes.UUIDArray(ids)
}
