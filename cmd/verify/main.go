package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/tendant/simple-verify/pkg/account"
	pkgconfig "github.com/tendant/simple-verify/pkg/config"
	"github.com/tendant/simple-verify/pkg/notification"
	"github.com/tendant/simple-verify/pkg/ratelimit"
	"github.com/tendant/simple-verify/pkg/registry"
	"github.com/tendant/simple-verify/pkg/signup"
	"github.com/tendant/simple-verify/pkg/verification"
	verificationapi "github.com/tendant/simple-verify/pkg/verification/api"
	"github.com/tendant/simple-verify/pkg/verifytoken"
)

type JwtConfig struct {
	Secret   string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer   string `env:"JWT_ISSUER" env-default:"simple-verify"`
	Audience string `env:"JWT_AUDIENCE" env-default:"simple-verify"`
}

type AppConfig struct {
	RegistrationEnabled bool `env:"REGISTRATION_ENABLED" env-default:"true"`
}

type Config struct {
	DbConfig           pkgconfig.DatabaseConfig
	EmailConfig        pkgconfig.EmailConfig
	VerificationConfig pkgconfig.VerificationConfig
	JwtConfig          JwtConfig
	AppConfig          AppConfig
}

// loadEnvFile loads environment variables from .env file if it exists
// Only sets variables that are not already set in the environment
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("Failed to get current working directory", "error", err)
		return
	}

	envFile := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "error", err, "path", envFile)
	}
}

func main() {
	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true, // Enables line number & file path
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	config := Config{}
	cleanenv.ReadEnv(&config)

	if errs := config.VerificationConfig.Validate(); errs.HasErrors() {
		slog.Error("Invalid verification configuration", "error", errs.Error())
		os.Exit(-1)
	}

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)

	// Rate limiting: per-IP plus a tighter bucket on registration
	rateLimitConfig := pkgconfig.NewRateLimitConfigFromEnv()
	middlewareConfig := ratelimit.DefaultConfig()
	if rateLimitConfig.SignupEnabled {
		middlewareConfig.EndpointLimits["POST /api/signup/register"] = ratelimit.EndpointLimit{
			Capacity:   rateLimitConfig.SignupCapacity,
			RefillRate: rateLimitConfig.SignupRefillRate,
		}
	}
	rateLimitMiddleware := ratelimit.NewMiddleware(middlewareConfig)
	server.R.Use(rateLimitMiddleware.Handler)

	// Subject store and token registry on the configured persistence type.
	// Tokens are process-local even when subjects live in postgres: a
	// restart invalidating outstanding tokens is acceptable, they resend.
	persistenceType := config.VerificationConfig.PersistenceType
	var repoConfig account.RepositoryConfig
	repoConfig.DataDir = config.VerificationConfig.DataDir
	registryType := persistenceType
	if persistenceType == "postgres" || persistenceType == "postgresql" {
		pool, err := dbutils.NewDbPool(context.Background(), config.DbConfig.ToDbConfig())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", config.DbConfig.Database,
				"host", config.DbConfig.Host, "port", config.DbConfig.Port, "user", config.DbConfig.User)
			os.Exit(-1)
		}
		repoConfig.Pool = pool
		registryType = "memory"
	}

	subjectRepo, err := account.NewRepository(persistenceType, repoConfig)
	if err != nil {
		slog.Error("Failed to create subject repository", "error", err)
		os.Exit(-1)
	}

	tokenRegistry, err := registry.NewTokenRegistry(registryType, config.VerificationConfig.DataDir)
	if err != nil {
		slog.Error("Failed to create token registry", "error", err)
		os.Exit(-1)
	}

	// Background sweep of expired tokens
	sweeper := registry.NewSweeper(tokenRegistry, config.VerificationConfig.SweepInterval)
	sweeper.Start(context.Background())

	codec, err := verifytoken.New(
		config.VerificationConfig.Secret,
		config.VerificationConfig.Issuer,
		config.VerificationConfig.Audience,
		verifytoken.WithTokenExpiry(config.VerificationConfig.TokenExpiry),
	)
	if err != nil {
		slog.Error("Failed to create token codec", "error", err)
		os.Exit(-1)
	}

	notificationManager, err := notification.NewNotificationManagerWithOptions(
		config.VerificationConfig.BaseURL,
		notification.WithSMTP(config.EmailConfig.ToSMTPConfig()),
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		slog.Error("Failed to initialize notification manager", "err", err)
		os.Exit(-1)
	}
	mailer := notification.NewVerificationMailer(notificationManager)

	var serviceOpts []verification.ServiceOption
	serviceOpts = append(serviceOpts,
		verification.WithTokenExpiry(config.VerificationConfig.TokenExpiry),
		verification.WithSendTimeout(config.VerificationConfig.SendTimeout),
	)
	if rateLimitConfig.VerifyEnabled {
		serviceOpts = append(serviceOpts, verification.WithRateLimiter(
			ratelimit.NewRateLimiter(rateLimitConfig.VerifyCapacity, rateLimitConfig.VerifyRefillRate, 0),
		))
	}

	verificationService := verification.NewService(
		codec,
		tokenRegistry,
		subjectRepo,
		mailer,
		config.VerificationConfig.BaseURL,
		serviceOpts...,
	)

	signupService := signup.NewService(subjectRepo, verificationService)
	signupHandle := signup.NewHandle(signupService,
		signup.WithRegistrationEnabled(config.AppConfig.RegistrationEnabled))

	auth := jwtauth.New("HS256", []byte(config.JwtConfig.Secret), nil)
	verificationHandler := verificationapi.NewHandler(verificationService)

	server.R.Route("/api/verification", func(r chi.Router) {
		verificationapi.Routes(r, verificationHandler, auth)
	})
	server.R.Route("/api/signup", func(r chi.Router) {
		signup.Routes(r, signupHandle)
	})

	server.Run()
}
