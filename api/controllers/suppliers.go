package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solidmarket/marketplace-backend/api/responses"
	"github.com/solidmarket/marketplace-backend/api/validators"
	"github.com/solidmarket/marketplace-backend/internal/suppliers"
	"github.com/solidmarket/marketplace-backend/internal/users"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	"github.com/solidmarket/marketplace-backend/pkg/pagination"
	"github.com/solidmarket/marketplace-backend/pkg/types"
)

type supplierCreateRequest struct {
	Name                 string           `json:"name" validate:"required,min=1"`
	Email                string           `json:"email" validate:"required,email"`
	URL                  *string          `json:"url,omitempty"`
	Phone                *string          `json:"phone,omitempty"`
	Address              types.Address    `json:"address" validate:"required"`
	CommissionFlatRate   *decimal.Decimal `json:"commission_flat_rate,omitempty"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage,omitempty"`
	UserID               *uuid.UUID       `json:"user_id,omitempty"`
}

func (r supplierCreateRequest) toInput() suppliers.CreateSupplierInput {
	return suppliers.CreateSupplierInput{
		Name:                 r.Name,
		Email:                r.Email,
		URL:                  r.URL,
		Phone:                r.Phone,
		Address:              r.Address,
		CommissionFlatRate:   r.CommissionFlatRate,
		CommissionPercentage: r.CommissionPercentage,
		UserID:               r.UserID,
	}
}

// SupplierCreate registers a new supplier and its first stock location.
func SupplierCreate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		var payload supplierCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SupplierGet returns a single live supplier.
func SupplierGet(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

type supplierListResponse struct {
	Items  []suppliers.SupplierDTO `json:"items"`
	Cursor string                  `json:"cursor,omitempty"`
}

// SupplierList pages through live suppliers, newest first.
func SupplierList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, cursor, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplierListResponse{Items: items, Cursor: cursor})
	}
}

type supplierUpdateRequest struct {
	Name                 *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Email                *string          `json:"email,omitempty" validate:"omitempty,email"`
	URL                  *string          `json:"url,omitempty"`
	Phone                *string          `json:"phone,omitempty"`
	Address              *types.Address   `json:"address,omitempty"`
	CommissionFlatRate   *decimal.Decimal `json:"commission_flat_rate,omitempty"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage,omitempty"`
}

func (r supplierUpdateRequest) toInput() suppliers.UpdateSupplierInput {
	return suppliers.UpdateSupplierInput{
		Name:                 r.Name,
		Email:                r.Email,
		URL:                  r.URL,
		Phone:                r.Phone,
		Address:              r.Address,
		CommissionFlatRate:   r.CommissionFlatRate,
		CommissionPercentage: r.CommissionPercentage,
	}
}

// SupplierUpdate adjusts the mutable supplier fields.
func SupplierUpdate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload supplierUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

// SupplierDelete soft-deletes the supplier. Repeat calls succeed quietly.
func SupplierDelete(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type supplierAttachUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// SupplierAttachUser links an account to the supplier, creating one when needed.
func SupplierAttachUser(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload supplierAttachUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.AttachUser(r.Context(), id, suppliers.AttachUserInput{
			Email:     payload.Email,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// SupplierUsers lists every account attached to the supplier.
func SupplierUsers(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListUsers(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]users.UserDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, *users.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, dtos)
	}
}
