package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/config"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/tokens"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/mail"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/service"
)

type Config struct {
	Env            string
	Port           int
	AppName        string
	APIPrefix      string
	FrontendDomain string
	BackendDomain  string
	LogLevel       string
	DatabaseURL    string

	Tokens service.TokenKeys
	Mail   mail.Config

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RateLimitRPS   float64
	RateLimitBurst int
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Load reads .env when present and then the process environment. Missing
// secrets, a missing DATABASE_URL or a malformed token lifetime terminate
// the process.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env not loaded, using process environment", "error", err)
	}

	if err := CheckDurations(); err != nil {
		log.Fatalf("invalid token lifetime: %v", err)
	}
	cfg := FromEnv()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.Tokens.Access.Secret, "AUTH_JWT_SECRET")
	config.MustNonEmptyBytes(cfg.Tokens.Refresh.Secret, "AUTH_REFRESH_SECRET")
	config.MustNonEmptyBytes(cfg.Tokens.ConfirmEmail.Secret, "AUTH_CONFIRM_EMAIL_SECRET")
	config.MustPositive(cfg.Tokens.Access.TTL, "AUTH_JWT_TOKEN_EXPIRES_IN")
	config.MustPositive(cfg.Tokens.Refresh.TTL, "AUTH_REFRESH_TOKEN_EXPIRES_IN")
	config.MustPositive(cfg.Tokens.ConfirmEmail.TTL, "AUTH_CONFIRM_EMAIL_TOKEN_EXPIRES_IN")

	return cfg
}

// FromEnv builds the configuration without validation.
func FromEnv() Config {
	env := config.EnvDefault("APP_ENV", config.EnvDefault("NODE_ENV", "development"))
	frontend := config.EnvDefault("FRONTEND_DOMAIN", "http://localhost:3000")

	return Config{
		Env:            env,
		Port:           config.EnvIntDefault("APP_PORT", 3000),
		AppName:        config.EnvDefault("APP_NAME", "Telemedicine Platform"),
		APIPrefix:      config.EnvDefault("API_PREFIX", "api"),
		FrontendDomain: frontend,
		BackendDomain:  config.EnvDefault("BACKEND_DOMAIN", "http://localhost:3000"),
		LogLevel:       config.EnvDefault("LOG_LEVEL", "info"),
		DatabaseURL:    config.EnvDefault("DATABASE_URL", ""),

		Tokens: service.TokenKeys{
			Access:       key("AUTH_JWT_SECRET", "AUTH_JWT_TOKEN_EXPIRES_IN", 15*time.Minute),
			Refresh:      key("AUTH_REFRESH_SECRET", "AUTH_REFRESH_TOKEN_EXPIRES_IN", 3650*24*time.Hour),
			Forgot:       key("AUTH_FORGOT_SECRET", "AUTH_FORGOT_TOKEN_EXPIRES_IN", 30*time.Minute),
			ConfirmEmail: key("AUTH_CONFIRM_EMAIL_SECRET", "AUTH_CONFIRM_EMAIL_TOKEN_EXPIRES_IN", 24*time.Hour),
		},

		Mail: mail.Config{
			Host:         config.EnvDefault("MAIL_HOST", ""),
			Port:         config.EnvIntDefault("MAIL_PORT", 587),
			User:         config.EnvDefault("MAIL_USER", ""),
			Password:     config.EnvDefault("MAIL_PASSWORD", ""),
			FromEmail:    config.EnvDefault("MAIL_DEFAULT_EMAIL", "noreply@example.com"),
			FromName:     config.EnvDefault("MAIL_DEFAULT_NAME", "Telemedicine Platform"),
			IgnoreTLS:    config.EnvBoolDefault("MAIL_IGNORE_TLS", false),
			Secure:       config.EnvBoolDefault("MAIL_SECURE", false),
			RequireTLS:   config.EnvBoolDefault("MAIL_REQUIRE_TLS", false),
			FrontendBase: frontend,
		},

		KafkaBrokers: config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   config.EnvDefault("KAFKA_AUTH_TOPIC", "auth.events"),

		ESURL:      config.EnvDefault("ES_URL", ""),
		ESUser:     config.EnvDefault("ES_USER", ""),
		ESPassword: config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    config.EnvDefault("ES_AUDIT_INDEX", "auth-audit"),

		RateLimitRPS:   float64(config.EnvIntDefault("RATE_LIMIT_RPS", 5)),
		RateLimitBurst: config.EnvIntDefault("RATE_LIMIT_BURST", 10),
	}
}

var durationEnvs = []string{
	"AUTH_JWT_TOKEN_EXPIRES_IN",
	"AUTH_REFRESH_TOKEN_EXPIRES_IN",
	"AUTH_FORGOT_TOKEN_EXPIRES_IN",
	"AUTH_CONFIRM_EMAIL_TOKEN_EXPIRES_IN",
}

// CheckDurations reports every token lifetime that is set but does not
// parse, so a typo never falls back to the default lifetime.
func CheckDurations() error {
	var errs []error
	for _, env := range durationEnvs {
		if _, err := config.EnvDuration(env, 0); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func key(secretEnv, ttlEnv string, def time.Duration) tokens.Key {
	return tokens.Key{
		Secret: []byte(config.EnvDefault(secretEnv, "")),
		TTL:    config.EnvDurationDefault(ttlEnv, def),
	}
}
