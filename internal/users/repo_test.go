package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  system_role TEXT,
  supplier_ids TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	return db
}

func TestRepositoryCreateAndFindByEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	supplierID := uuid.New()
	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "owner@widgets.test",
		PasswordHash: "hash",
		FirstName:    "Pat",
		LastName:     "Owner",
		SupplierIDs:  []uuid.UUID{supplierID},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)

	found, err := repo.FindByEmail(context.Background(), "owner@widgets.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.SupplierIDs, 1)
	assert.Equal(t, supplierID, found.SupplierIDs[0])
}

func TestRepositoryFindByEmailNotFound(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByEmail(context.Background(), "missing@widgets.test")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateSupplierIDs(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "staff@widgets.test",
		PasswordHash: "hash",
		FirstName:    "Sam",
		LastName:     "Staff",
	})
	require.NoError(t, err)
	require.Empty(t, created.SupplierIDs)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.UpdateSupplierIDs(context.Background(), created.ID, []uuid.UUID{first, second}))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found.SupplierIDs, 2)
	assert.True(t, found.SupplierIDs.Contains(first))
	assert.True(t, found.SupplierIDs.Contains(second))
}

func TestRepositoryUpdateSupplierIDsWithTx(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "tx@widgets.test",
		PasswordHash: "hash",
		FirstName:    "Terry",
		LastName:     "Tx",
	})
	require.NoError(t, err)

	supplierID := uuid.New()
	err = db.Transaction(func(tx *gorm.DB) error {
		user, err := repo.FindByEmailWithTx(tx, "tx@widgets.test")
		if err != nil {
			return err
		}
		return repo.UpdateSupplierIDsWithTx(tx, user.ID, append([]uuid.UUID(nil), supplierID))
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, found.SupplierIDs.Contains(supplierID))
}

func TestRepositoryFindByIDWithTx(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "byid@widgets.test",
		PasswordHash: "hash",
		FirstName:    "Billie",
		LastName:     "ID",
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		found, err := repo.FindByIDWithTx(tx, created.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, created.Email, found.Email)

		_, err = repo.FindByIDWithTx(tx, uuid.New())
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.FindByIDWithTx(nil, created.ID)
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}
