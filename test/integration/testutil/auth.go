package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MintToken signs a short-lived HS256 token accepted by the services'
// authentication middleware. The secret must match the JWT_SECRET the
// service under test was started with; tests that need a token are
// skipped when TEST_JWT_SECRET is not set.
func MintToken(t *testing.T, userID, role string) string {
	t.Helper()

	secret := os.Getenv("TEST_JWT_SECRET")
	if secret == "" {
		t.Skip("TEST_JWT_SECRET not set, skipping authenticated integration test")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// AuthHeader builds the Authorization header map for a minted token.
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
