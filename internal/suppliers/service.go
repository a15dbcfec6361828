package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/internal/stocklocations"
	"github.com/solidmarket/marketplace-backend/internal/users"
	"github.com/solidmarket/marketplace-backend/pkg/config"
	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	"github.com/solidmarket/marketplace-backend/pkg/metrics"
	"github.com/solidmarket/marketplace-backend/pkg/outbox"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
	"github.com/solidmarket/marketplace-backend/pkg/security"
	"github.com/solidmarket/marketplace-backend/pkg/settings"
)

const tempPasswordLength = 16

type supplierRepository interface {
	CreateWithTx(tx *gorm.DB, supplier *models.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Supplier, error)
	UpdateWithTx(tx *gorm.DB, supplier *models.Supplier) error
	SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error)
}

type usersRepository interface {
	CreateWithTx(tx *gorm.DB, dto users.CreateUserDTO) (*models.User, error)
	FindByEmailWithTx(tx *gorm.DB, email string) (*models.User, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error)
	UpdateSupplierIDsWithTx(tx *gorm.DB, id uuid.UUID, supplierIDs []uuid.UUID) error
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.User, error)
	ListBySupplierWithTx(tx *gorm.DB, supplierID uuid.UUID) ([]models.User, error)
}

type locationsRepository interface {
	CreateWithTx(tx *gorm.DB, dto stocklocations.CreateStockLocationDTO) (*models.StockLocation, error)
	CountBySupplierWithTx(tx *gorm.DB, supplierID uuid.UUID) (int64, error)
}

type welcomeSender interface {
	SendWelcomeWithTx(ctx context.Context, tx *gorm.DB, supplier *models.Supplier) (*models.Notification, error)
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes supplier lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateSupplierInput) (*CreateResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	List(ctx context.Context, params pagination.Params) ([]SupplierDTO, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AttachUser(ctx context.Context, supplierID uuid.UUID, input AttachUserInput) (*users.UserDTO, error)
	ListUsers(ctx context.Context, supplierID uuid.UUID) ([]models.User, error)
}

// AttachUserInput identifies the account to attach to a supplier. The name
// fields only matter when a new account has to be provisioned.
type AttachUserInput struct {
	Email     string
	FirstName string
	LastName  string
}

type service struct {
	repo        supplierRepository
	users       usersRepository
	locations   locationsRepository
	welcome     welcomeSender
	emitter     outboxEmitter
	tx          txRunner
	settings    settings.Provider
	passwordCfg config.PasswordConfig
	metrics     *metrics.DomainMetrics
	logg        *logger.Logger
}

// NewService builds a supplier service with the provided collaborators.
func NewService(
	repo supplierRepository,
	usersRepo usersRepository,
	locations locationsRepository,
	welcome welcomeSender,
	emitter outboxEmitter,
	tx txRunner,
	provider settings.Provider,
	passwordCfg config.PasswordConfig,
	domainMetrics *metrics.DomainMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if locations == nil {
		return nil, fmt.Errorf("stock locations repository required")
	}
	if welcome == nil {
		return nil, fmt.Errorf("welcome sender required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if provider == nil {
		return nil, fmt.Errorf("settings provider required")
	}
	return &service{
		repo:        repo,
		users:       usersRepo,
		locations:   locations,
		welcome:     welcome,
		emitter:     emitter,
		tx:          tx,
		settings:    provider,
		passwordCfg: passwordCfg,
		metrics:     domainMetrics,
		logg:        logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSupplierInput) (*CreateResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if input.Address.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if input.CommissionFlatRate != nil && input.CommissionFlatRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission flat rate cannot be negative")
	}
	if input.CommissionPercentage != nil && input.CommissionPercentage.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission percentage cannot be negative")
	}

	// Both the commission defaults and the welcome toggle are read at the
	// instant of creation, never cached across requests.
	resolution := resolveCommission(ctx, s.settings, input.CommissionFlatRate, input.CommissionPercentage)
	sendWelcome := s.settings.Bool(ctx, settings.KeySendSupplierEmail)

	var location *models.StockLocation

	supplier := &models.Supplier{
		Name:                 name,
		Email:                email,
		URL:                  input.URL,
		Phone:                input.Phone,
		Address:              input.Address,
		CommissionFlatRate:   resolution.FlatRate,
		CommissionPercentage: resolution.Percentage,
	}

	result := &CreateResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, supplier); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
		}

		// An explicitly supplied account wins outright; the directory email
		// lookup only runs when none was given.
		var linkedUser *models.User
		var linkErr error
		if input.UserID != nil {
			linkedUser, linkErr = s.attachKnownUserWithTx(tx, supplier.ID, *input.UserID)
		} else {
			linkedUser, linkErr = s.linkUserWithTx(tx, supplier.ID, email)
		}
		if linkErr != nil {
			return linkErr
		}
		if linkedUser != nil {
			result.LinkedUserID = &linkedUser.ID
		}

		provisioned, err := s.provisionLocationWithTx(tx, supplier)
		if err != nil {
			return err
		}
		location = provisioned
		result.StockLocation = location.ID

		createdEvent := outbox.DomainEvent{
			EventType:     enums.EventSupplierCreated,
			AggregateType: enums.AggregateSupplier,
			AggregateID:   supplier.ID,
			Data: outbox.SupplierCreatedEvent{
				SupplierID:           supplier.ID,
				Name:                 supplier.Name,
				Email:                supplier.Email,
				CommissionFlatRate:   supplier.CommissionFlatRate,
				CommissionPercentage: supplier.CommissionPercentage,
				StockLocationID:      location.ID,
				LinkedUserID:         result.LinkedUserID,
			},
		}
		if err := s.emitter.Emit(ctx, tx, createdEvent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue supplier created event")
		}

		locationEvent := outbox.DomainEvent{
			EventType:     enums.EventStockLocationCreated,
			AggregateType: enums.AggregateStockLocation,
			AggregateID:   location.ID,
			Data: outbox.StockLocationCreatedEvent{
				StockLocationID: location.ID,
				SupplierID:      supplier.ID,
				Name:            location.Name,
				Country:         location.Country,
			},
		}
		if err := s.emitter.Emit(ctx, tx, locationEvent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue stock location event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSupplierCreated(resolution.Source())
	if s.logg != nil {
		logCtx := s.logg.WithSupplierID(ctx, supplier.ID.String())
		s.logg.Info(logCtx, "supplier created")
	}

	// The welcome notification runs after the supplier commit so a delivery
	// failure can never roll back the creation.
	if sendWelcome {
		result.WelcomeSent = s.sendWelcome(ctx, supplier)
	} else {
		s.metrics.IncWelcome("skipped")
	}

	result.Supplier = FromModel(supplier)
	return result, nil
}

func (s *service) sendWelcome(ctx context.Context, supplier *models.Supplier) bool {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, sendErr := s.welcome.SendWelcomeWithTx(ctx, tx, supplier)
		return sendErr
	})
	if err != nil {
		s.metrics.IncWelcome("failed")
		if s.logg != nil {
			logCtx := s.logg.WithSupplierID(ctx, supplier.ID.String())
			s.logg.Error(logCtx, "welcome notification failed", err)
		}
		return false
	}
	s.metrics.IncWelcome("sent")
	return true
}

// linkUserWithTx attaches the supplier to a user whose account email matches.
// A missing user is not an error, and an already linked user stays linked.
func (s *service) linkUserWithTx(tx *gorm.DB, supplierID uuid.UUID, email string) (*models.User, error) {
	user, err := s.users.FindByEmailWithTx(tx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if user.SupplierIDs.Contains(supplierID) {
		return user, nil
	}

	updated := append([]uuid.UUID(nil), user.SupplierIDs...)
	updated = append(updated, supplierID)
	if err := s.users.UpdateSupplierIDsWithTx(tx, user.ID, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link supplier user")
	}
	return user, nil
}

// attachKnownUserWithTx links a caller-chosen account by id. The account must
// already exist; attaching twice is a no-op.
func (s *service) attachKnownUserWithTx(tx *gorm.DB, supplierID, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByIDWithTx(tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown user id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if user.SupplierIDs.Contains(supplierID) {
		return user, nil
	}

	updated := append([]uuid.UUID(nil), user.SupplierIDs...)
	updated = append(updated, supplierID)
	if err := s.users.UpdateSupplierIDsWithTx(tx, user.ID, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link supplier user")
	}
	return user, nil
}

// provisionLocationWithTx creates the supplier's first stock location. Finding
// any existing location here means another writer raced the insert, which the
// surrounding transaction should never allow.
func (s *service) provisionLocationWithTx(tx *gorm.DB, supplier *models.Supplier) (*models.StockLocation, error) {
	count, err := s.locations.CountBySupplierWithTx(tx, supplier.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stock locations")
	}
	if count != 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supplier already has stock locations")
	}

	// The first location always starts active and inherits the address country.
	active := true
	location, err := s.locations.CreateWithTx(tx, stocklocations.CreateStockLocationDTO{
		SupplierID: supplier.ID,
		Name:       supplier.Name,
		Country:    strings.TrimSpace(supplier.Address.Country),
		Active:     &active,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock location")
	}
	return location, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if supplier.IsDeleted() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return FromModel(supplier), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]SupplierDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nextCursor, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	if input.CommissionFlatRate != nil && input.CommissionFlatRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission flat rate cannot be negative")
	}
	if input.CommissionPercentage != nil && input.CommissionPercentage.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission percentage cannot be negative")
	}

	var supplier *models.Supplier
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		loaded, err := s.repo.FindByIDWithTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		if loaded.IsDeleted() {
			return pkgerrors.New(pkgerrors.CodeConflict, "supplier is deleted")
		}

		if input.Name != nil {
			trimmed := strings.TrimSpace(*input.Name)
			if trimmed == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
			}
			loaded.Name = trimmed
		}
		emailChanged := false
		if input.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*input.Email))
			if !strings.Contains(email, "@") {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
			}
			emailChanged = email != loaded.Email
			loaded.Email = email
		}
		if input.URL != nil {
			loaded.URL = input.URL
		}
		if input.Phone != nil {
			loaded.Phone = input.Phone
		}
		if input.Address != nil {
			loaded.Address = *input.Address
		}
		if input.CommissionFlatRate != nil {
			loaded.CommissionFlatRate = *input.CommissionFlatRate
		}
		if input.CommissionPercentage != nil {
			loaded.CommissionPercentage = *input.CommissionPercentage
		}

		if err := s.repo.UpdateWithTx(tx, loaded); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
		}

		// A new contact email re-runs directory linkage, but never steals a
		// supplier that already has users attached.
		if emailChanged {
			existing, err := s.users.ListBySupplierWithTx(tx, loaded.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier users")
			}
			if len(existing) == 0 {
				if _, err := s.linkUserWithTx(tx, loaded.ID, loaded.Email); err != nil {
					return err
				}
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventSupplierUpdated,
			AggregateType: enums.AggregateSupplier,
			AggregateID:   loaded.ID,
			Data: outbox.SupplierUpdatedEvent{
				SupplierID: loaded.ID,
				Name:       loaded.Name,
				Email:      loaded.Email,
			},
		}
		if err := s.emitter.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue supplier updated event")
		}

		supplier = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(supplier), nil
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	deleted := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		loaded, err := s.repo.FindByIDWithTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		if loaded.IsDeleted() {
			return nil
		}

		now := time.Now().UTC()
		ok, err := s.repo.SoftDeleteWithTx(tx, id, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "soft delete supplier")
		}
		if !ok {
			return nil
		}
		deleted = true

		event := outbox.DomainEvent{
			EventType:     enums.EventSupplierDeleted,
			AggregateType: enums.AggregateSupplier,
			AggregateID:   id,
			Data: outbox.SupplierDeletedEvent{
				SupplierID: id,
				DeletedAt:  now,
			},
		}
		if err := s.emitter.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue supplier deleted event")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if deleted {
		s.metrics.IncSupplierDeleted()
		if s.logg != nil {
			logCtx := s.logg.WithSupplierID(ctx, id.String())
			s.logg.Info(logCtx, "supplier soft deleted")
		}
	}
	return nil
}

// AttachUser links an existing account to the supplier, or provisions a new
// account with a generated temporary password when none matches the email.
func (s *service) AttachUser(ctx context.Context, supplierID uuid.UUID, input AttachUserInput) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	var attached *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		supplier, err := s.repo.FindByIDWithTx(tx, supplierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		if supplier.IsDeleted() {
			return pkgerrors.New(pkgerrors.CodeConflict, "supplier is deleted")
		}

		existing, err := s.linkUserWithTx(tx, supplierID, email)
		if err != nil {
			return err
		}
		if existing != nil {
			attached = existing
			return nil
		}

		created, err := s.provisionUserWithTx(tx, supplierID, email, input)
		if err != nil {
			return err
		}
		attached = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(attached), nil
}

func (s *service) provisionUserWithTx(tx *gorm.DB, supplierID uuid.UUID, email string, input AttachUserInput) (*models.User, error) {
	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temporary password")
	}

	created, err := s.users.CreateWithTx(tx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		SupplierIDs:  []uuid.UUID{supplierID},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier user")
	}
	return created, nil
}

func (s *service) ListUsers(ctx context.Context, supplierID uuid.UUID) ([]models.User, error) {
	if _, err := s.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}
	rows, err := s.users.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier users")
	}
	return rows, nil
}
