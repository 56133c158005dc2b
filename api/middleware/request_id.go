package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request with a correlation id, honoring one supplied
// by the caller, and echoes it back in the response header.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
