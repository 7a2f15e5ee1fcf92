package middleware

import (
	"net/http"

	"github.com/devmart/media-pipeline-go/internal/apictx"
	"github.com/devmart/media-pipeline-go/internal/handler/api"
	"github.com/devmart/media-pipeline-go/internal/logger"
	"github.com/devmart/media-pipeline-go/internal/port"
)

// WithRateLimit throttles per authenticated profile, so it must run after
// WithEditorAuth. A failing limiter store lets the request through: losing
// throttling for a window beats taking the upload surface down with it.
func WithRateLimit(limiter port.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := apictx.AuthUserIDFromContext(r.Context())
			if !ok {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			allowed, err := limiter.Allow(r.Context(), "upload:"+uid.String())
			if err != nil {
				logger.Warnf(r.Context(), "⚠️  Rate limiter unavailable, letting request through: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				api.WriteError(w, http.StatusTooManyRequests, "too many uploads, slow down", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
