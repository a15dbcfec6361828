package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
)

// Repository answers read-only catalog questions for suppliers. Variants are
// the join point: suppliers never reference products directly.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LinkVariant records that a supplier can fulfill the variant. The pair is
// unique, so re-linking is a no-op at the database level.
func (r *Repository) LinkVariant(ctx context.Context, supplierID, variantID uuid.UUID) error {
	link := models.SupplierVariant{
		ID:         uuid.New(),
		SupplierID: supplierID,
		VariantID:  variantID,
	}
	return r.db.WithContext(ctx).
		Where("supplier_id = ? AND variant_id = ?", supplierID, variantID).
		FirstOrCreate(&link).Error
}

// ListVariantsBySupplier returns every variant the supplier can fulfill.
func (r *Repository) ListVariantsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Joins("JOIN supplier_variants ON supplier_variants.variant_id = variants.id").
		Where("supplier_variants.supplier_id = ?", supplierID).
		Order("variants.sku ASC").
		Find(&variants).Error
	return variants, err
}

// ListProductsBySupplier resolves the supplier's products through its
// variants. A product appears once no matter how many of its variants the
// supplier carries.
func (r *Repository) ListProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("products.*").
		Joins("JOIN variants ON variants.product_id = products.id").
		Joins("JOIN supplier_variants ON supplier_variants.variant_id = variants.id").
		Where("supplier_variants.supplier_id = ?", supplierID).
		Order("products.name ASC").
		Find(&products).Error
	return products, err
}
