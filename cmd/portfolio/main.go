package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/portfolio/internal/auth"
	"github.com/dukerupert/portfolio/internal/database"
	"github.com/dukerupert/portfolio/internal/email"
	"github.com/dukerupert/portfolio/internal/logging"
	"github.com/dukerupert/portfolio/internal/server"
)

const sweepInterval = time.Minute

func main() {
	if err := loadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DevMode {
		logger.Warn("dev mode enabled: /debug/otp is exposed and must not run in production")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.BrevoAPIKey, cfg.EmailFrom, email.WithLogger(logger.With("component", "email")))
	if !emailClient.Configured() {
		logger.Warn("BREVO_API_KEY not set, login codes will be written to the log")
	}

	srv, err := server.New(server.Config{
		DB:          db,
		Sender:      emailClient,
		Secret:      cfg.Secret,
		DevMode:     cfg.DevMode,
		TrustProxy:  cfg.TrustProxy,
		Upload:      cfg.Upload,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	created, err := auth.EnsureAdmin(context.Background(), srv.UserStore(), cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}
	if created {
		logger.Info("created admin user", "email", cfg.AdminEmail)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup of stale challenges and rate-limit windows
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := srv.AuthService().Sweep(); n > 0 {
					slog.Debug("swept stale otp challenges", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("portfolio service starting", "addr", ":"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
