package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/outbox"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
)

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines notification operations.
type Service interface {
	SendWelcomeWithTx(ctx context.Context, tx *gorm.DB, supplier *models.Supplier) (*models.Notification, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, supplierID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type service struct {
	repo    Repository
	emitter outboxEmitter
}

// ListParams configures pagination for notifications.
type ListParams struct {
	SupplierID uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository, emitter outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if emitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox emitter required")
	}
	return &service{repo: repo, emitter: emitter}, nil
}

// SendWelcomeWithTx stores the welcome notification and queues the outbound
// event in the same transaction as the supplier insert.
func (s *service) SendWelcomeWithTx(ctx context.Context, tx *gorm.DB, supplier *models.Supplier) (*models.Notification, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if supplier == nil || supplier.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier required")
	}

	notification := &models.Notification{
		ID:         uuid.New(),
		SupplierID: supplier.ID,
		Type:       enums.NotificationSupplierWelcome,
		Title:      "Welcome to the marketplace",
		Message:    fmt.Sprintf("%s is ready to sell. Activate a stock location to start fulfilling orders.", supplier.Name),
	}
	if err := s.repo.WithTx(tx).Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create welcome notification")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventSupplierWelcomeRequested,
		AggregateType: enums.AggregateNotification,
		AggregateID:   supplier.ID,
		Data: outbox.SupplierWelcomeRequestedEvent{
			SupplierID:     supplier.ID,
			NotificationID: notification.ID,
			Email:          supplier.Email,
			Name:           supplier.Name,
		},
	}
	if err := s.emitter.EmitIfNotExists(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue welcome event")
	}
	return notification, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	query := listNotificationsParams{
		SupplierID: params.SupplierID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, supplierID, notificationID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, supplierID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	if supplierID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	count, err := s.repo.MarkAllRead(ctx, supplierID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
