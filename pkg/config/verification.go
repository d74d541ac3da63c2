package config

import (
	"time"
)

// VerificationConfig holds token signing and verification flow settings.
// Secret has no default: the service refuses to start without one.
type VerificationConfig struct {
	Secret          string        `env:"VERIFY_TOKEN_SECRET"`
	Issuer          string        `env:"VERIFY_TOKEN_ISSUER" env-default:"simple-verify"`
	Audience        string        `env:"VERIFY_TOKEN_AUDIENCE" env-default:"simple-verify-app"`
	TokenExpiry     time.Duration `env:"VERIFY_TOKEN_EXPIRY" env-default:"24h"`
	BaseURL         string        `env:"VERIFY_BASE_URL" env-default:"http://localhost:4000"`
	PersistenceType string        `env:"VERIFY_PERSISTENCE_TYPE" env-default:"memory"`
	DataDir         string        `env:"VERIFY_DATA_DIR" env-default:"./data"`
	SweepInterval   time.Duration `env:"VERIFY_SWEEP_INTERVAL" env-default:"1h"`
	SendTimeout     time.Duration `env:"VERIFY_SEND_TIMEOUT" env-default:"10s"`
}

// Validate checks the verification configuration.
func (v VerificationConfig) Validate() ValidationErrors {
	var errs ValidationErrors
	if err := RequireNonEmpty("VERIFY_TOKEN_SECRET", v.Secret); err != nil {
		errs = append(errs, *err)
	}
	if err := RequireNonEmpty("VERIFY_TOKEN_ISSUER", v.Issuer); err != nil {
		errs = append(errs, *err)
	}
	if err := RequirePositiveDuration("VERIFY_TOKEN_EXPIRY", v.TokenExpiry); err != nil {
		errs = append(errs, *err)
	}
	if err := RequirePositiveDuration("VERIFY_SEND_TIMEOUT", v.SendTimeout); err != nil {
		errs = append(errs, *err)
	}
	return errs
}

// NewVerificationConfigFromEnv creates a VerificationConfig from environment variables
func NewVerificationConfigFromEnv() VerificationConfig {
	return VerificationConfig{
		Secret:          GetEnv("VERIFY_TOKEN_SECRET"),
		Issuer:          GetEnvOrDefault("VERIFY_TOKEN_ISSUER", "simple-verify"),
		Audience:        GetEnvOrDefault("VERIFY_TOKEN_AUDIENCE", "simple-verify-app"),
		TokenExpiry:     GetEnvDuration("VERIFY_TOKEN_EXPIRY", 24*time.Hour),
		BaseURL:         GetEnvOrDefault("VERIFY_BASE_URL", "http://localhost:4000"),
		PersistenceType: GetEnvOrDefault("VERIFY_PERSISTENCE_TYPE", "memory"),
		DataDir:         GetEnvOrDefault("VERIFY_DATA_DIR", "./data"),
		SweepInterval:   GetEnvDuration("VERIFY_SWEEP_INTERVAL", time.Hour),
		SendTimeout:     GetEnvDuration("VERIFY_SEND_TIMEOUT", 10*time.Second),
	}
}
