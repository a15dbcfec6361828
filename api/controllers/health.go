package controllers

import (
	"net/http"

	"github.com/solidmarket/marketplace-backend/api/responses"
	"github.com/solidmarket/marketplace-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SolidMarket-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, ready func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SolidMarket-Env", cfg.App.Env)
		if ready != nil {
			if err := ready(); err != nil {
				responses.WriteError(r.Context(), nil, w, err)
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
