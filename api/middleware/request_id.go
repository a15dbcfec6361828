package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solidmarket/marketplace-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes an inbound request id or mints one, and hangs it on the
// context logger so every log line for the request carries it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
