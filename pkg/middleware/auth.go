package middleware

import (
	"context"
	"net/http"
	"strings"

	"tablebook/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"

	RoleAdmin = "admin"
	RoleGuest = "guest"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authentication verifies the Bearer token and injects the caller's identity
// into the request context. Token issuance belongs to the (external) accounts
// service; this side only validates.
func Authentication(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				rejectUnauthorized(w, "missing bearer token")
				return
			}

			parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				log.Warn("Rejected invalid token",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				rejectUnauthorized(w, "invalid or expired token")
				return
			}

			c := parsed.Claims.(*claims)
			role := c.Role
			if role == "" {
				role = RoleGuest
			}

			ctx := context.WithValue(r.Context(), UserIDKey, c.Subject)
			ctx = context.WithValue(ctx, RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func rejectUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

// UserIDFromContext returns the authenticated user's ID, or "".
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// IsAdmin reports whether the authenticated caller carries the admin role.
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(RoleKey).(string)
	return role == RoleAdmin
}
