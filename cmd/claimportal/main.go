package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "claimportal/internal/adapter/http"
	"claimportal/internal/adapter/memory"
	"claimportal/internal/adapter/postgres"
	"claimportal/internal/adapter/sqlite"
	"claimportal/internal/adapter/token"
	"claimportal/internal/app"
	"claimportal/internal/config"
	"claimportal/internal/domain"
)

// store is what the services need from a storage backend.
type store interface {
	domain.IdentityRepository
	domain.ClaimRepository
}

func main() {
	cfg, err := config.Load(env("CONFIG_FILE", "config.yaml"))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	db, closeDB, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer closeDB()

	issuer, err := token.NewJWTIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	opts := adapthttp.Options{
		RequireClaimAuth: cfg.RequireClaimAuth,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		Logger:           logger,
	}
	if cfg.OIDC.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		opts.OIDC, err = adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		cancel()
		if err != nil {
			return err
		}
		logger.Info("sso enabled", "issuer", cfg.OIDC.Issuer)
	}

	authSvc := app.NewAuthService(db, issuer, cfg.BcryptCost)
	claimsSvc := app.NewClaimsService(db)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           adapthttp.New(authSvc, claimsSvc, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(srv, logger)
}

func openStore(cfg config.Config) (store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.DriverMemory:
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func serve(srv *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
