// Command server runs the records API with its authentication and session
// security subsystem.
//
// @title        Surgassist Records API
// @version      1.0
// @description  Records and scheduling backend for a surgical-assisting business. This service exposes the authentication, session, and password-reset surface.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/surgassist/records-api/internal/api"
	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
	"github.com/surgassist/records-api/internal/core/service"
	"github.com/surgassist/records-api/internal/infrastructure/config"
	mongodb "github.com/surgassist/records-api/internal/infrastructure/db/mongo"
	redisdb "github.com/surgassist/records-api/internal/infrastructure/db/redis"
	"github.com/surgassist/records-api/internal/infrastructure/mail"
	"github.com/surgassist/records-api/internal/infrastructure/queue"
	"github.com/surgassist/records-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "records-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	accountRepo := mongodb.NewAccountRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	auditRepo := mongodb.NewAuditRepository(db)

	// --- Audit sink (best-effort, async) ---
	auditWriter := queue.NewAuditWriter(0, auditRepo, log)
	auditWriter.Start(ctx)

	// --- Security components ---
	// No signing key, no service: there is no safe default.
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("refusing to start")
	}

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	lockout := domain.LockoutPolicy{MaxAttempts: cfg.Auth.MaxLoginAttempts, Duration: cfg.Auth.LockoutDuration}
	passwordPolicy := domain.PasswordPolicy{MinLength: cfg.Auth.MinPasswordLength}

	eligibleRoles, err := cfg.Auth.EligibleRoles()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid reset eligibility configuration")
	}

	var mailer ports.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Warn().Msg("SMTP_HOST not set, reset mail goes to the log mailer")
		mailer = mail.NewLogMailer(log)
	}

	throttle := redisdb.NewResetThrottle(rdb, 0, log)

	// --- Services ---
	authService := service.NewAuthService(accountRepo, hasher, tokens, lockout, auditWriter, log)
	resetService := service.NewResetService(
		accountRepo, hasher, passwordPolicy, eligibleRoles, cfg.Auth.ResetTokenTTL,
		mailer, throttle, auditWriter, log, cfg.BaseURL,
	)
	accountService := service.NewAccountService(accountRepo, hasher, passwordPolicy, auditWriter, log)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Reset:    resetService,
		Accounts: accountService,
		Tokens:   tokens,
		DB:       db,
		RDB:      rdb,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("records api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
