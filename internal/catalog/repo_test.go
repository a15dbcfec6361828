package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS supplier_variants (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (supplier_id, variant_id)
);`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, slug string) models.Product {
	t.Helper()
	product := models.Product{ID: uuid.New(), Name: name, Slug: slug}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, sku string) models.Variant {
	t.Helper()
	variant := models.Variant{ID: uuid.New(), ProductID: productID, SKU: sku}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func TestLinkVariantIsIdempotent(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "Widget", "widget")
	variant := seedVariant(t, db, product.ID, "W-1")
	supplierID := uuid.New()

	require.NoError(t, repo.LinkVariant(context.Background(), supplierID, variant.ID))
	require.NoError(t, repo.LinkVariant(context.Background(), supplierID, variant.ID))

	var count int64
	require.NoError(t, db.Model(&models.SupplierVariant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListProductsBySupplierDeduplicates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	widget := seedProduct(t, db, "Widget", "widget")
	gadget := seedProduct(t, db, "Gadget", "gadget")
	other := seedProduct(t, db, "Other", "other")

	wSmall := seedVariant(t, db, widget.ID, "W-S")
	wLarge := seedVariant(t, db, widget.ID, "W-L")
	gOnly := seedVariant(t, db, gadget.ID, "G-1")
	seedVariant(t, db, other.ID, "O-1")

	supplierID := uuid.New()
	for _, v := range []models.Variant{wSmall, wLarge, gOnly} {
		require.NoError(t, repo.LinkVariant(context.Background(), supplierID, v.ID))
	}

	products, err := repo.ListProductsBySupplier(context.Background(), supplierID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[0].Name)
	assert.Equal(t, "Widget", products[1].Name)

	variants, err := repo.ListVariantsBySupplier(context.Background(), supplierID)
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.Equal(t, "G-1", variants[0].SKU)
}

func TestListProductsBySupplierEmpty(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	products, err := repo.ListProductsBySupplier(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, products)
}
