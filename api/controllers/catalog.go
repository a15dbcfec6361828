package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/api/responses"
	"github.com/solidmarket/marketplace-backend/api/validators"
	"github.com/solidmarket/marketplace-backend/internal/catalog"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
)

// SupplierProducts lists the products a supplier reaches through its variants.
func SupplierProducts(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := repo.ListProductsBySupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier products"))
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// SupplierVariants lists the variants a supplier can fulfill.
func SupplierVariants(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := repo.ListVariantsBySupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier variants"))
			return
		}

		responses.WriteSuccess(w, variants)
	}
}

type linkVariantRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
}

// SupplierLinkVariant records that the supplier can fulfill a variant.
func SupplierLinkVariant(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload linkVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.LinkVariant(r.Context(), supplierID, payload.VariantID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link variant"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "linked"})
	}
}
