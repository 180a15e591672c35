package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "accounts", cfg.DynamoTables.Accounts)
	assert.Equal(t, "call_outcomes", cfg.DynamoTables.Outcomes)
	assert.Equal(t, "day-first", cfg.DateOrder)
	assert.Equal(t, 15*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.DynamoBootstrap)
	assert.Empty(t, cfg.StripeSecretKey)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AGENCY_NAME", "Acme Recoveries")
	t.Setenv("DATE_ORDER", "month-first")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")
	t.Setenv("CALL_RATE_LIMIT", "0.5")
	t.Setenv("CALL_RATE_BURST", "3")
	t.Setenv("DYNAMO_BOOTSTRAP", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_SUCCESS_URL", "https://pay.example.com/thanks")

	cfg := Load()
	assert.Equal(t, "Acme Recoveries", cfg.AgencyName)
	assert.Equal(t, "month-first", cfg.DateOrder)
	assert.Equal(t, 90*time.Second, cfg.SessionIdleTimeout)
	assert.Equal(t, 0.5, cfg.CallRateLimit)
	assert.Equal(t, 3, cfg.CallRateBurst)
	assert.True(t, cfg.DynamoBootstrap)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "sk_test_123", cfg.StripeSecretKey)
	assert.Equal(t, "https://pay.example.com/thanks", cfg.StripeSuccessURL)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "soon")
	t.Setenv("CALL_RATE_BURST", "many")
	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 10, cfg.CallRateBurst)
}
