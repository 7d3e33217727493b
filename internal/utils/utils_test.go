package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

func TestGetCompanyID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/product-summary", nil)
	assert.Equal(t, int64(0), GetCompanyID(r))

	r.Header.Set("X-Company-ID", "7")
	assert.Equal(t, int64(7), GetCompanyID(r))

	r.Header.Set("X-Company-ID", "not-a-number")
	assert.Equal(t, int64(0), GetCompanyID(r))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-11-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("29/11/2025")
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := models.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "sunrise",
		Audience:  "sunrise_users",
		Expiry:    time.Hour,
	}
	token, err := GenerateJWT(models.JWT{ID: 5, Username: "ops@sunrise.test", Role: "admin", CompanyID: 3}, cfg)
	require.NoError(t, err)

	claims, err := VerifyJWT(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "ops@sunrise.test", claims["username"])
	assert.Equal(t, float64(3), claims["company_id"])

	_, err = VerifyJWT(token, models.JWTConfig{SecretKey: "wrong-secret"})
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("other", hash))
}
