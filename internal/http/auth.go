package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
)

type Claims struct {
	Sub   string `json:"sub"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller, extracted once per request.
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
	Email  string
	Name   string
}

type ctxKey int

const identityKey ctxKey = iota

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ProfileEnsurer creates the caller's profile row on first contact.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, p domain.Profile) error
}

// AuthMiddleware validates the Bearer token and plants the caller's identity
// in the request context. The profile row is created lazily here so a user
// arriving straight from signup always has one. A failed ensure does not
// block the request, later profile reads just 404 until the row lands.
func AuthMiddleware(secret string, profiles ProfileEnsurer, logger observability.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			userID, err := uuid.Parse(claims.Sub)
			if err != nil {
				http.Error(w, "invalid token subject", http.StatusUnauthorized)
				return
			}

			identity := Identity{
				UserID: userID,
				Role:   domain.Role(claims.Role),
				Email:  claims.Email,
				Name:   claims.Name,
			}
			if err := profiles.EnsureProfile(r.Context(), domain.Profile{
				ID:       identity.UserID,
				Role:     identity.Role,
				FullName: identity.Name,
				Email:    identity.Email,
			}); err != nil {
				logger.WithError(err).WithField("user_id", identity.UserID).Warn("failed to ensure profile")
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards owner-only routes.
func RequireRole(role domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok || id.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
