package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/api/middleware"
	"github.com/solidmarket/marketplace-backend/api/responses"
	"github.com/solidmarket/marketplace-backend/api/validators"
	"github.com/solidmarket/marketplace-backend/internal/shipments"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
)

func supplierFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.SupplierIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "supplier context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id")
	}
	return id, nil
}

type shipmentListResponse struct {
	Items  []shipments.ShipmentDTO `json:"items"`
	Cursor string                  `json:"cursor,omitempty"`
}

// ShipmentList pages through the active supplier's shipments across all of
// its stock locations.
func ShipmentList(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := supplierFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, cursor, err := svc.ListForSupplier(r.Context(), supplierID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shipmentListResponse{Items: items, Cursor: cursor})
	}
}

type shipmentCreateRequest struct {
	StockLocationID uuid.UUID `json:"stock_location_id" validate:"required"`
	Number          string    `json:"number,omitempty"`
	TrackingNumber  *string   `json:"tracking_number,omitempty"`
}

// ShipmentCreate records a shipment from one of the supplier's locations.
func ShipmentCreate(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := supplierFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload shipmentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), supplierID, shipments.CreateShipmentInput{
			StockLocationID: payload.StockLocationID,
			Number:          payload.Number,
			TrackingNumber:  payload.TrackingNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ShipmentMarkShipped transitions a shipment to the shipped state.
func ShipmentMarkShipped(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := supplierFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipmentID, err := validators.ParsePathUUID(chi.URLParam(r, "shipmentID"), "shipmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.MarkShipped(r.Context(), supplierID, shipmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
