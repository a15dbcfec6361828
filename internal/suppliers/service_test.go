package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/internal/stocklocations"
	"github.com/solidmarket/marketplace-backend/internal/users"
	"github.com/solidmarket/marketplace-backend/pkg/config"
	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	dbtypes "github.com/solidmarket/marketplace-backend/pkg/db/types"
	"github.com/solidmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/outbox"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
	"github.com/solidmarket/marketplace-backend/pkg/settings"
	"github.com/solidmarket/marketplace-backend/pkg/types"
)

type stubSupplierRepo struct {
	byID        map[uuid.UUID]*models.Supplier
	created     *models.Supplier
	updated     *models.Supplier
	listRows    []models.Supplier
	softDeleted []uuid.UUID
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{byID: map[uuid.UUID]*models.Supplier{}}
}

func (s *stubSupplierRepo) CreateWithTx(_ *gorm.DB, supplier *models.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	supplier.CreatedAt = time.Now().UTC()
	s.created = supplier
	s.byID[supplier.ID] = supplier
	return nil
}

func (s *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

func (s *stubSupplierRepo) FindByIDWithTx(_ *gorm.DB, id uuid.UUID) (*models.Supplier, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubSupplierRepo) List(_ context.Context, limit int, _ *pagination.Cursor) ([]models.Supplier, error) {
	if limit < len(s.listRows) {
		return s.listRows[:limit], nil
	}
	return s.listRows, nil
}

func (s *stubSupplierRepo) UpdateWithTx(_ *gorm.DB, supplier *models.Supplier) error {
	s.updated = supplier
	s.byID[supplier.ID] = supplier
	return nil
}

func (s *stubSupplierRepo) SoftDeleteWithTx(_ *gorm.DB, id uuid.UUID, at time.Time) (bool, error) {
	supplier, ok := s.byID[id]
	if !ok || supplier.DeletedAt != nil {
		return false, nil
	}
	supplier.DeletedAt = &at
	s.softDeleted = append(s.softDeleted, id)
	return true, nil
}

type stubUsersRepo struct {
	byEmail      map[string]*models.User
	byID         map[uuid.UUID]*models.User
	linkUpdates  map[uuid.UUID][]uuid.UUID
	listRows     []models.User
	emailLookups int
	txListCalls  int
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{
		byEmail:     map[string]*models.User{},
		byID:        map[uuid.UUID]*models.User{},
		linkUpdates: map[uuid.UUID][]uuid.UUID{},
	}
}

func (s *stubUsersRepo) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUsersRepo) CreateWithTx(_ *gorm.DB, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.add(user)
	return user, nil
}

func (s *stubUsersRepo) FindByEmailWithTx(_ *gorm.DB, email string) (*models.User, error) {
	s.emailLookups++
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsersRepo) FindByIDWithTx(_ *gorm.DB, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsersRepo) UpdateSupplierIDsWithTx(_ *gorm.DB, id uuid.UUID, supplierIDs []uuid.UUID) error {
	s.linkUpdates[id] = supplierIDs
	return nil
}

func (s *stubUsersRepo) ListBySupplier(_ context.Context, _ uuid.UUID) ([]models.User, error) {
	return s.listRows, nil
}

func (s *stubUsersRepo) ListBySupplierWithTx(_ *gorm.DB, _ uuid.UUID) ([]models.User, error) {
	s.txListCalls++
	return s.listRows, nil
}

type stubLocationsRepo struct {
	count   int64
	created *models.StockLocation
}

func (s *stubLocationsRepo) CreateWithTx(_ *gorm.DB, dto stocklocations.CreateStockLocationDTO) (*models.StockLocation, error) {
	location := dto.ToModel()
	location.ID = uuid.New()
	s.created = location
	return location, nil
}

func (s *stubLocationsRepo) CountBySupplierWithTx(_ *gorm.DB, _ uuid.UUID) (int64, error) {
	return s.count, nil
}

type stubWelcomeSender struct {
	calls int
	err   error
}

func (s *stubWelcomeSender) SendWelcomeWithTx(_ context.Context, _ *gorm.DB, supplier *models.Supplier) (*models.Notification, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Notification{ID: uuid.New(), SupplierID: supplier.ID}, nil
}

type stubOutboxEmitter struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutboxEmitter) eventTypes() []enums.OutboxEventType {
	out := make([]enums.OutboxEventType, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.EventType)
	}
	return out
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type serviceFixture struct {
	service   Service
	suppliers *stubSupplierRepo
	users     *stubUsersRepo
	locations *stubLocationsRepo
	welcome   *stubWelcomeSender
	emitter   *stubOutboxEmitter
}

func newServiceFixture(t *testing.T, provider settings.Provider) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		suppliers: newStubSupplierRepo(),
		users:     newStubUsersRepo(),
		locations: &stubLocationsRepo{},
		welcome:   &stubWelcomeSender{},
		emitter:   &stubOutboxEmitter{},
	}
	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	svc, err := NewService(f.suppliers, f.users, f.locations, f.welcome, f.emitter, stubTxRunner{}, provider, passwordCfg, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.service = svc
	return f
}

func testCreateInput() CreateSupplierInput {
	return CreateSupplierInput{
		Name:  "Acme Wholesale",
		Email: "owner@acme.example",
		Address: types.Address{
			Line1:      "1 Market St",
			City:       "Rotterdam",
			PostalCode: "3011",
			Country:    "NL",
		},
	}
}

func TestCreateUsesScaledDefaults(t *testing.T) {
	provider := settings.NewStatic(map[string]string{
		settings.KeyDefaultCommissionFlatRate:   "1",
		settings.KeyDefaultCommissionPercentage: "1",
	})
	f := newServiceFixture(t, provider)

	result, err := f.service.Create(context.Background(), testCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !result.Supplier.CommissionFlatRate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("flat rate = %s, want 1", result.Supplier.CommissionFlatRate)
	}
	if !result.Supplier.CommissionPercentage.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("percentage = %s, want 10", result.Supplier.CommissionPercentage)
	}
}

func TestCreateKeepsOverridesVerbatim(t *testing.T) {
	provider := settings.NewStatic(map[string]string{
		settings.KeyDefaultCommissionFlatRate:   "1",
		settings.KeyDefaultCommissionPercentage: "1",
	})
	f := newServiceFixture(t, provider)

	flat := decimal.NewFromInt(123)
	percentage := decimal.NewFromInt(25)
	input := testCreateInput()
	input.CommissionFlatRate = &flat
	input.CommissionPercentage = &percentage

	result, err := f.service.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !result.Supplier.CommissionFlatRate.Equal(flat) {
		t.Fatalf("flat rate = %s, want %s", result.Supplier.CommissionFlatRate, flat)
	}
	if !result.Supplier.CommissionPercentage.Equal(percentage) {
		t.Fatalf("percentage = %s, want %s", result.Supplier.CommissionPercentage, percentage)
	}
}

func TestCreateProvisionsStockLocation(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))

	result, err := f.service.Create(context.Background(), testCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if f.locations.created == nil {
		t.Fatal("expected a stock location to be provisioned")
	}
	if f.locations.created.Name != "Acme Wholesale" {
		t.Fatalf("location name = %q, want supplier name", f.locations.created.Name)
	}
	if f.locations.created.Country != "NL" {
		t.Fatalf("location country = %q, want NL", f.locations.created.Country)
	}
	if !f.locations.created.Active {
		t.Fatal("first provisioned location must start active")
	}
	if result.StockLocation != f.locations.created.ID {
		t.Fatal("result does not reference the provisioned location")
	}

	got := f.emitter.eventTypes()
	want := []enums.OutboxEventType{enums.EventSupplierCreated, enums.EventStockLocationCreated}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestCreateFailsWhenLocationsAlreadyExist(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	f.locations.count = 1

	_, err := f.service.Create(context.Background(), testCreateInput())
	if err == nil {
		t.Fatal("expected error when supplier already has locations")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeInternal {
		t.Fatalf("error = %v, want internal", err)
	}
}

func TestCreateLinksExistingUser(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	user := &models.User{ID: uuid.New(), Email: "owner@acme.example"}
	f.users.byEmail[user.Email] = user

	result, err := f.service.Create(context.Background(), testCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if result.LinkedUserID == nil || *result.LinkedUserID != user.ID {
		t.Fatal("expected the matching user to be linked")
	}
	linked := f.users.linkUpdates[user.ID]
	if len(linked) != 1 || linked[0] != f.suppliers.created.ID {
		t.Fatalf("linked ids = %v, want the new supplier", linked)
	}
}

func TestCreatePreAttachedUserSkipsLookup(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	user := &models.User{ID: uuid.New(), Email: "existing@elsewhere.example"}
	f.users.add(user)

	input := testCreateInput()
	input.UserID = &user.ID

	result, err := f.service.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if f.users.emailLookups != 0 {
		t.Fatalf("email lookups = %d, explicit attachment must bypass the directory", f.users.emailLookups)
	}
	if result.LinkedUserID == nil || *result.LinkedUserID != user.ID {
		t.Fatal("expected the supplied user to be attached")
	}
	linked := f.users.linkUpdates[user.ID]
	if len(linked) != 1 || linked[0] != f.suppliers.created.ID {
		t.Fatalf("linked ids = %v, want the new supplier", linked)
	}
}

func TestCreateUnknownPreAttachedUserFailsValidation(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))

	unknown := uuid.New()
	input := testCreateInput()
	input.UserID = &unknown

	_, err := f.service.Create(context.Background(), input)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestAttachUserIsIdempotent(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	supplierID := uuid.New()
	user := &models.User{
		ID:          uuid.New(),
		Email:       "owner@acme.example",
		SupplierIDs: dbtypes.UUIDArray{supplierID},
	}
	f.users.byEmail[user.Email] = user
	f.suppliers.byID[supplierID] = &models.Supplier{ID: supplierID, Name: "Acme Wholesale"}

	linked, err := f.service.AttachUser(context.Background(), supplierID, AttachUserInput{Email: user.Email})
	if err != nil {
		t.Fatalf("AttachUser: %v", err)
	}
	if linked.ID != user.ID {
		t.Fatal("expected the existing user back")
	}
	if _, updated := f.users.linkUpdates[user.ID]; updated {
		t.Fatal("already linked user must not be written again")
	}
}

func TestAttachUserProvisionsNewAccount(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	supplierID := uuid.New()
	f.suppliers.byID[supplierID] = &models.Supplier{ID: supplierID, Name: "Acme Wholesale"}

	attached, err := f.service.AttachUser(context.Background(), supplierID, AttachUserInput{
		Email:     "New.Owner@acme.example",
		FirstName: "Pat",
		LastName:  "Owner",
	})
	if err != nil {
		t.Fatalf("AttachUser: %v", err)
	}

	if attached.Email != "new.owner@acme.example" {
		t.Fatalf("email = %q, want lowercased", attached.Email)
	}
	if len(attached.SupplierIDs) != 1 || attached.SupplierIDs[0] != supplierID {
		t.Fatalf("supplier ids = %v", attached.SupplierIDs)
	}
	stored := f.users.byEmail["new.owner@acme.example"]
	if stored == nil {
		t.Fatal("expected the new account to be persisted")
	}
	if stored.PasswordHash == "" {
		t.Fatal("new account must carry a hashed temporary password")
	}
}

func TestAttachUserDeletedSupplierConflicts(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	now := time.Now().UTC()
	supplierID := uuid.New()
	f.suppliers.byID[supplierID] = &models.Supplier{ID: supplierID, DeletedAt: &now}

	_, err := f.service.AttachUser(context.Background(), supplierID, AttachUserInput{Email: "x@y.z"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestCreateSkipsUnknownUser(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))

	result, err := f.service.Create(context.Background(), testCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.LinkedUserID != nil {
		t.Fatal("no user should be linked when none matches the email")
	}
}

func TestCreateWelcomeGatedBySetting(t *testing.T) {
	cases := []struct {
		name      string
		setting   string
		wantCalls int
	}{
		{name: "enabled", setting: "true", wantCalls: 1},
		{name: "disabled", setting: "false", wantCalls: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := settings.NewStatic(map[string]string{
				settings.KeySendSupplierEmail: tc.setting,
			})
			f := newServiceFixture(t, provider)

			result, err := f.service.Create(context.Background(), testCreateInput())
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if f.welcome.calls != tc.wantCalls {
				t.Fatalf("welcome calls = %d, want %d", f.welcome.calls, tc.wantCalls)
			}
			if result.WelcomeSent != (tc.wantCalls == 1) {
				t.Fatalf("WelcomeSent = %v", result.WelcomeSent)
			}
		})
	}
}

func TestCreateSurvivesWelcomeFailure(t *testing.T) {
	provider := settings.NewStatic(map[string]string{
		settings.KeySendSupplierEmail: "true",
	})
	f := newServiceFixture(t, provider)
	f.welcome.err = pkgerrors.New(pkgerrors.CodeDependency, "notification store down")

	result, err := f.service.Create(context.Background(), testCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.WelcomeSent {
		t.Fatal("failed welcome must not be reported as sent")
	}
	if f.suppliers.created == nil {
		t.Fatal("supplier creation must survive a welcome failure")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))

	cases := []struct {
		name  string
		input CreateSupplierInput
	}{
		{name: "missing name", input: CreateSupplierInput{Email: "a@b.c"}},
		{name: "missing email", input: CreateSupplierInput{Name: "Acme"}},
		{name: "invalid email", input: CreateSupplierInput{Name: "Acme", Email: "no-at-sign"}},
		{name: "missing address", input: CreateSupplierInput{Name: "Acme", Email: "a@b.c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tc.input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}
	if f.locations.created != nil {
		t.Fatal("invalid input must not provision a stock location")
	}
}

func TestGetByIDHidesDeletedSupplier(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	now := time.Now().UTC()
	id := uuid.New()
	f.suppliers.byID[id] = &models.Supplier{ID: id, Name: "Gone", DeletedAt: &now}

	_, err := f.service.GetByID(context.Background(), id)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestUpdateDeletedSupplierConflicts(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	now := time.Now().UTC()
	id := uuid.New()
	f.suppliers.byID[id] = &models.Supplier{ID: id, Name: "Gone", DeletedAt: &now}

	name := "New Name"
	_, err := f.service.Update(context.Background(), id, UpdateSupplierInput{Name: &name})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestUpdateEmitsEvent(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	id := uuid.New()
	f.suppliers.byID[id] = &models.Supplier{ID: id, Name: "Before", Email: "before@x.example"}

	name := "After"
	updated, err := f.service.Update(context.Background(), id, UpdateSupplierInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "After" {
		t.Fatalf("name = %q", updated.Name)
	}
	got := f.emitter.eventTypes()
	if len(got) != 1 || got[0] != enums.EventSupplierUpdated {
		t.Fatalf("events = %v, want supplier_updated", got)
	}
}

func TestUpdateEmailRelinksWhenNoUsersAttached(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	id := uuid.New()
	f.suppliers.byID[id] = &models.Supplier{ID: id, Name: "Acme", Email: "old@acme.example"}

	user := &models.User{ID: uuid.New(), Email: "new@acme.example"}
	f.users.byEmail[user.Email] = user

	email := "new@acme.example"
	if _, err := f.service.Update(context.Background(), id, UpdateSupplierInput{Email: &email}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	linked, ok := f.users.linkUpdates[user.ID]
	if !ok {
		t.Fatalf("expected user %s to be linked", user.ID)
	}
	if len(linked) != 1 || linked[0] != id {
		t.Fatalf("linked supplier ids = %v", linked)
	}
}

func TestUpdateEmailSkipsLinkageWhenUsersAttached(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	id := uuid.New()
	f.suppliers.byID[id] = &models.Supplier{ID: id, Name: "Acme", Email: "old@acme.example"}
	f.users.listRows = []models.User{{ID: uuid.New(), Email: "owner@acme.example"}}

	user := &models.User{ID: uuid.New(), Email: "new@acme.example"}
	f.users.byEmail[user.Email] = user

	email := "new@acme.example"
	if _, err := f.service.Update(context.Background(), id, UpdateSupplierInput{Email: &email}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(f.users.linkUpdates) != 0 {
		t.Fatalf("linkage should not run, got %v", f.users.linkUpdates)
	}
	// The guard must read attachment state inside the update transaction.
	if f.users.txListCalls != 1 {
		t.Fatalf("tx list calls = %d, want 1", f.users.txListCalls)
	}
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	id := uuid.New()
	f.suppliers.byID[id] = &models.Supplier{ID: id, Name: "Acme"}

	if err := f.service.SoftDelete(context.Background(), id); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := f.service.SoftDelete(context.Background(), id); err != nil {
		t.Fatalf("second SoftDelete: %v", err)
	}

	got := f.emitter.eventTypes()
	if len(got) != 1 || got[0] != enums.EventSupplierDeleted {
		t.Fatalf("events = %v, want one supplier_deleted", got)
	}
}

func TestListReturnsNextCursor(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		f.suppliers.listRows = append(f.suppliers.listRows, models.Supplier{
			ID:        uuid.New(),
			Name:      "Supplier",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	rows, next, err := f.service.List(context.Background(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if next == "" {
		t.Fatal("expected a next cursor")
	}
	cursor, err := pagination.ParseCursor(next)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatal("cursor must pin the last returned row")
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	f := newServiceFixture(t, settings.NewStatic(nil))

	_, _, err := f.service.List(context.Background(), pagination.Params{Cursor: "!!!"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}
