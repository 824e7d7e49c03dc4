package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Abrazadera de Reparación":   "abrazadera-de-reparacion",
		"  Kit  Epóxico / 250 ml  ": "kit-epoxico-250-ml",
		"Niño & Compañía":            "nino-compania",
		"---":                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestQuotationNumber(t *testing.T) {
	assert.Equal(t, "COT-202610-0007", QuotationNumber("COT", "202610", 7))
	assert.Equal(t, "COT-202610-12345", QuotationNumber("COT", "202610", 12345))
	assert.Equal(t, "COT-202610-", NumberPrefix("COT", "202610"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	id := uuid.New()

	token, expiresAt, err := m.GenerateToken(id, "admin@andes.pe", "Admin", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = NewJWTManager("other-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, _, err := m.GenerateToken(uuid.New(), "a@b.pe", "A", "ventas")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}
