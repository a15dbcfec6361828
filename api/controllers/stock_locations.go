package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/solidmarket/marketplace-backend/api/responses"
	"github.com/solidmarket/marketplace-backend/api/validators"
	"github.com/solidmarket/marketplace-backend/internal/stocklocations"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
)

// StockLocationList returns every location registered for the supplier.
func StockLocationList(repo *stocklocations.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.ListBySupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock locations"))
			return
		}

		dtos := make([]stocklocations.StockLocationDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, *stocklocations.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, dtos)
	}
}

type stockLocationCreateRequest struct {
	Name    string `json:"name" validate:"required,min=1"`
	Country string `json:"country" validate:"required,min=2,max=2"`
	Active  *bool  `json:"active,omitempty"`
}

// StockLocationCreate adds another location for an existing supplier.
func StockLocationCreate(repo *stocklocations.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockLocationCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := repo.Create(r.Context(), stocklocations.CreateStockLocationDTO{
			SupplierID: supplierID,
			Name:       payload.Name,
			Country:    payload.Country,
			Active:     payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock location"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, stocklocations.FromModel(created))
	}
}

type stockLocationActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// StockLocationSetActive toggles whether a location can fulfill shipments.
func StockLocationSetActive(repo *stocklocations.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockLocationActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetActive(r.Context(), locationID, *payload.Active); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "stock location not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock location"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"active": *payload.Active})
	}
}
