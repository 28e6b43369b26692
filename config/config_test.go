package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONSULTATION_WINDOW_HOURS", "not-a-number")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.ConsultationWindow)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OTP_TTL_MINUTES", "5")
	t.Setenv("DOCTOR_CACHE_TTL_MINUTES", "3")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 3*time.Minute, cfg.Redis.TTL)
}
