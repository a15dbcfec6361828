package controllers

import (
	"net/http"

	"github.com/solidmarket/marketplace-backend/api/responses"
	"github.com/solidmarket/marketplace-backend/api/validators"
	pkgerrors "github.com/solidmarket/marketplace-backend/pkg/errors"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	"github.com/solidmarket/marketplace-backend/pkg/settings"
)

// SettingsGet reports the current runtime settings.
func SettingsGet(provider settings.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		payload := map[string]any{
			settings.KeyDefaultCommissionFlatRate:   provider.Decimal(ctx, settings.KeyDefaultCommissionFlatRate).String(),
			settings.KeyDefaultCommissionPercentage: provider.Decimal(ctx, settings.KeyDefaultCommissionPercentage).String(),
			settings.KeySendSupplierEmail:           provider.Bool(ctx, settings.KeySendSupplierEmail),
		}
		responses.WriteSuccess(w, payload)
	}
}

type settingUpdateRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// SettingsPut mutates a single runtime setting. The change takes effect on
// the next read, no restart involved.
func SettingsPut(provider settings.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload settingUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !settings.IsKnown(payload.Name) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown setting").WithDetails(map[string]any{"name": payload.Name}))
			return
		}

		if err := provider.Set(r.Context(), payload.Name, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist setting"))
			return
		}

		responses.WriteSuccess(w, map[string]string{payload.Name: payload.Value})
	}
}
