package shipments

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/pkg/db/models"
	"github.com/solidmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
)

type shipmentRepository interface {
	Create(ctx context.Context, dto CreateShipmentDTO) (*models.Shipment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Shipment, error)
	Update(ctx context.Context, shipment *models.Shipment) error
}

type stockLocationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.StockLocation, error)
}

// Service exposes shipment operations.
type Service interface {
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]ShipmentDTO, string, error)
	Create(ctx context.Context, supplierID uuid.UUID, input CreateShipmentInput) (*ShipmentDTO, error)
	MarkShipped(ctx context.Context, supplierID, shipmentID uuid.UUID) (*ShipmentDTO, error)
}

type service struct {
	repo      shipmentRepository
	locations stockLocationReader
}

// NewService builds a shipment service with the provided repositories.
func NewService(repo shipmentRepository, locations stockLocationReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipment repository required")
	}
	if locations == nil {
		return nil, fmt.Errorf("stock location repository required")
	}
	return &service{repo: repo, locations: locations}, nil
}

// CreateShipmentInput captures the data required to record a shipment.
type CreateShipmentInput struct {
	StockLocationID uuid.UUID
	Number          string
	TrackingNumber  *string
}

func (s *service) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]ShipmentDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListBySupplier(ctx, supplierID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier shipments")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]ShipmentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nextCursor, nil
}

func (s *service) Create(ctx context.Context, supplierID uuid.UUID, input CreateShipmentInput) (*ShipmentDTO, error) {
	location, err := s.ownedLocation(ctx, supplierID, input.StockLocationID)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(input.Number)
	if number == "" {
		number, err = generateNumber()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate shipment number")
		}
	}

	shipment, err := s.repo.Create(ctx, CreateShipmentDTO{
		StockLocationID: location.ID,
		Number:          number,
		TrackingNumber:  input.TrackingNumber,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
	}
	return FromModel(shipment), nil
}

func (s *service) MarkShipped(ctx context.Context, supplierID, shipmentID uuid.UUID) (*ShipmentDTO, error) {
	shipment, err := s.repo.FindByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
	}

	if _, err := s.ownedLocation(ctx, supplierID, shipment.StockLocationID); err != nil {
		return nil, err
	}

	if shipment.State == enums.ShipmentStateCanceled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "canceled shipments cannot ship")
	}
	if shipment.State == enums.ShipmentStateShipped {
		return FromModel(shipment), nil
	}

	now := time.Now().UTC()
	shipment.State = enums.ShipmentStateShipped
	shipment.ShippedAt = &now
	if err := s.repo.Update(ctx, shipment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment")
	}
	return FromModel(shipment), nil
}

func (s *service) ownedLocation(ctx context.Context, supplierID, locationID uuid.UUID) (*models.StockLocation, error) {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock location")
	}
	if location.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "stock location belongs to another supplier")
	}
	return location, nil
}

// Shipment numbers mirror the H-prefixed 11 digit convention.
func generateNumber() (string, error) {
	const digits = 11
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("H%0*d", digits, n), nil
}
