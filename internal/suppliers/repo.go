package suppliers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
)

// Repository handles supplier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to supplier operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a new supplier inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, supplier *models.Supplier) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	return tx.Create(supplier).Error
}

// FindByID loads a supplier by its UUID, soft-deleted rows included.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns live suppliers newest first with cursor pagination.
func (r *Repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Supplier, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("deleted_at IS NULL")
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var suppliers []models.Supplier
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&suppliers).Error
	return suppliers, err
}

// Update saves the provided supplier.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) error {
	if supplier == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(supplier).Error
}

// UpdateWithTx persists the supplier using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, supplier *models.Supplier) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if supplier == nil {
		return gorm.ErrInvalidValue
	}
	return tx.Save(supplier).Error
}

// FindByIDWithTx loads a supplier using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Supplier, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var supplier models.Supplier
	if err := tx.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// SoftDeleteWithTx stamps deleted_at inside the transaction. Rows already
// deleted are left untouched.
func (r *Repository) SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	result := tx.Model(&models.Supplier{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
