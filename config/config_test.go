package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PAYMENT_VERIFY_MODE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("BOOKING_SESSION_TTL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "trust", cfg.PaymentVerifyMode)
	assert.Equal(t, "studiojb", cfg.InfinitePayHandle)
	assert.Equal(t, 2*time.Hour, cfg.BookingSessionTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PAYMENT_VERIFY_MODE", "CHECK")
	t.Setenv("CORS_ORIGINS", "https://studiojb.com.br, https://admin.studiojb.com.br ,")
	t.Setenv("BOOKING_SESSION_TTL", "30m")
	t.Setenv("JWT_EXPIRY_HOURS", "nope")
	t.Setenv("PUBLIC_ORIGIN", "https://studiojb.com.br/")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "check", cfg.PaymentVerifyMode)
	assert.Equal(t, []string{"https://studiojb.com.br", "https://admin.studiojb.com.br"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.BookingSessionTTL)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, "https://studiojb.com.br", cfg.PublicOrigin)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
