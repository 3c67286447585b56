package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "API_PREFIX", "AUTH_JWT_TOKEN_EXPIRES_IN", "AUTH_REFRESH_TOKEN_EXPIRES_IN", "KAFKA_BROKERS", "MAIL_HOST"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "api", cfg.APIPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Tokens.Access.TTL)
	assert.Equal(t, 3650*24*time.Hour, cfg.Tokens.Refresh.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Tokens.ConfirmEmail.TTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "auth.events", cfg.KafkaTopic)
	assert.Empty(t, cfg.Mail.Host)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_JWT_TOKEN_EXPIRES_IN", "1h")
	t.Setenv("AUTH_CONFIRM_EMAIL_TOKEN_EXPIRES_IN", "2d")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("MAIL_SECURE", "true")
	t.Setenv("FRONTEND_DOMAIN", "https://app.example.com")

	cfg := FromEnv()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []byte("s3cret"), cfg.Tokens.Access.Secret)
	assert.Equal(t, time.Hour, cfg.Tokens.Access.TTL)
	assert.Equal(t, 48*time.Hour, cfg.Tokens.ConfirmEmail.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.Mail.Secure)
	assert.Equal(t, "https://app.example.com", cfg.Mail.FrontendBase)
}

func TestCheckDurations(t *testing.T) {
	for _, env := range durationEnvs {
		t.Setenv(env, "")
	}
	assert.NoError(t, CheckDurations())

	t.Setenv("AUTH_JWT_TOKEN_EXPIRES_IN", "1 hour")
	t.Setenv("AUTH_REFRESH_TOKEN_EXPIRES_IN", "3650 days")
	assert.NoError(t, CheckDurations())
	assert.Equal(t, time.Hour, FromEnv().Tokens.Access.TTL)

	t.Setenv("AUTH_JWT_TOKEN_EXPIRES_IN", "1 fortnight")
	t.Setenv("AUTH_CONFIRM_EMAIL_TOKEN_EXPIRES_IN", "soon")
	err := CheckDurations()
	require.Error(t, err)
	assert.ErrorContains(t, err, "AUTH_JWT_TOKEN_EXPIRES_IN")
	assert.ErrorContains(t, err, "AUTH_CONFIRM_EMAIL_TOKEN_EXPIRES_IN")
	assert.NotContains(t, err.Error(), "AUTH_REFRESH_TOKEN_EXPIRES_IN")
}
