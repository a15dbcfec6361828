package shipments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
)

// Repository handles shipment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shipment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new shipment row.
func (r *Repository) Create(ctx context.Context, dto CreateShipmentDTO) (*models.Shipment, error) {
	shipment := dto.ToModel()
	if shipment.ID == uuid.Nil {
		shipment.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(shipment).Error; err != nil {
		return nil, err
	}
	return shipment, nil
}

// FindByID loads a shipment by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shipment, nil
}

// ListByStockLocation returns shipments for one location, newest first.
func (r *Repository) ListByStockLocation(ctx context.Context, stockLocationID uuid.UUID) ([]models.Shipment, error) {
	var rows []models.Shipment
	err := r.db.WithContext(ctx).
		Where("stock_location_id = ?", stockLocationID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// ListBySupplier aggregates shipments across every stock location the
// supplier owns, newest first, with cursor pagination.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Shipment, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Joins("JOIN stock_locations ON stock_locations.id = shipments.stock_location_id").
		Where("stock_locations.supplier_id = ?", supplierID)

	if cursor != nil {
		query = query.Where(
			"(shipments.created_at < ?) OR (shipments.created_at = ? AND shipments.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Shipment
	err := query.
		Order("shipments.created_at DESC").
		Order("shipments.id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Update saves the provided shipment.
func (r *Repository) Update(ctx context.Context, shipment *models.Shipment) error {
	if shipment == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(shipment).Error
}
