package stocklocations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
)

// Repository handles stock location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to stock location operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new stock location row.
func (r *Repository) Create(ctx context.Context, dto CreateStockLocationDTO) (*models.StockLocation, error) {
	location := dto.ToModel()
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// CreateWithTx persists a new stock location inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateStockLocationDTO) (*models.StockLocation, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	location := dto.ToModel()
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	if err := tx.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// FindByID loads a location by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockLocation, error) {
	var location models.StockLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// ListBySupplier returns every location owned by the supplier, oldest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.StockLocation, error) {
	var locations []models.StockLocation
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at ASC").
		Find(&locations).Error
	return locations, err
}

// CountBySupplierWithTx counts the supplier's locations inside the transaction.
func (r *Repository) CountBySupplierWithTx(tx *gorm.DB, supplierID uuid.UUID) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	var count int64
	err := tx.Model(&models.StockLocation{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// SetActive flips the active flag on the location.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockLocation{}).
		Where("id = ?", id).
		UpdateColumn("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stock location %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
