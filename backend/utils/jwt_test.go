package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/config"
)

func extractVia(t *testing.T, cfg *config.Config, authHeader string) (uint, error) {
	t.Helper()

	var gotID uint
	var gotErr error

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		gotID, gotErr = ExtractUserIDFromToken(c, cfg)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	_, err := app.Test(req)
	require.NoError(t, err)

	return gotID, gotErr
}

func signToken(t *testing.T, cfg *config.Config, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return token
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	token, err := GenerateJWTToken(42, cfg)
	require.NoError(t, err)

	id, err := extractVia(t, cfg, "Bearer "+token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	// The raw token without the Bearer prefix is also accepted.
	id, err = extractVia(t, cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestJWTLegacyClaimNames(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}
	exp := time.Now().Add(time.Hour).Unix()

	for _, claim := range []string{"user_id", "id", "sub"} {
		token := signToken(t, cfg, jwt.MapClaims{claim: 7, "exp": exp})
		id, err := extractVia(t, cfg, "Bearer "+token)
		require.NoError(t, err, claim)
		assert.EqualValues(t, 7, id, claim)
	}
}

func TestJWTRejections(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	_, err := extractVia(t, cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing authorization token")

	_, err = extractVia(t, cfg, "Bearer garbage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid token")

	expired := signToken(t, cfg, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = extractVia(t, cfg, "Bearer "+expired)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token expired")

	// Signature from a different secret.
	other := &config.Config{JWTSecret: "othersecret"}
	foreign := signToken(t, other, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(time.Hour).Unix()})
	_, err = extractVia(t, cfg, "Bearer "+foreign)
	require.Error(t, err)

	// A token with no recognizable user id claim.
	anonymous := signToken(t, cfg, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	_, err = extractVia(t, cfg, "Bearer "+anonymous)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid user ID")
}
