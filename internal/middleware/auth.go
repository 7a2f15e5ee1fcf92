package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/devmart/media-pipeline-go/internal/apictx"
	"github.com/devmart/media-pipeline-go/internal/handler/api"
	"github.com/devmart/media-pipeline-go/internal/port"
)

// WithEditorAuth validates a Bearer JWT signed by the admin panel and only
// lets profiles allowed to manage media through. The token's sub claim must
// resolve to a stored profile; the role check runs against the database, not
// the token, so a revoked profile is locked out immediately.
func WithEditorAuth(jwtSecret string, profiles port.ProfileRepository) func(http.Handler) http.Handler {
	if jwtSecret == "" {
		panic("missing JWT secret for editor auth")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			raw := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, fmt.Errorf("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tok.Valid {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
				api.WriteError(w, http.StatusUnauthorized, "token expired", nil)
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				api.WriteError(w, http.StatusUnauthorized, "missing sub", nil)
				return
			}
			uid, err := uuid.Parse(sub)
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "invalid sub", err)
				return
			}

			profile, err := profiles.GetProfileByID(r.Context(), uid)
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "unknown profile", err)
				return
			}
			if !profile.CanManageMedia() {
				api.WriteError(w, http.StatusForbidden, "insufficient role", nil)
				return
			}

			ctx := context.WithValue(r.Context(), apictx.AuthUserIDKey, profile.ID)
			ctx = context.WithValue(ctx, apictx.AuthRoleKey, profile.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
