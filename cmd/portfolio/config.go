package main

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dukerupert/portfolio/internal/upload"
)

const (
	devSecret        = "change-this-secret-for-prod"
	devAdminPassword = "changeme"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

type config struct {
	Port          string
	DBPath        string
	Secret        string
	DevMode       bool
	TrustProxy    bool
	LogLevel      string
	LogFormat     string
	AdminEmail    string
	AdminPassword string
	BrevoAPIKey   string
	EmailFrom     string
	Upload        upload.Config
	CORSOrigins   []string
}

// loadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func loadConfig() (config, error) {
	devMode, _ := strconv.ParseBool(os.Getenv("PORTFOLIO_DEV_MODE"))
	trustProxy, _ := strconv.ParseBool(os.Getenv("PORTFOLIO_TRUST_PROXY"))

	cfg := config{
		Port:          getenv("PORTFOLIO_PORT", "8000"),
		DBPath:        getenv("PORTFOLIO_DB_PATH", "portfolio.db"),
		Secret:        os.Getenv("PORTFOLIO_SECRET"),
		DevMode:       devMode,
		TrustProxy:    trustProxy,
		LogLevel:      os.Getenv("PORTFOLIO_LOG_LEVEL"),
		LogFormat:     os.Getenv("PORTFOLIO_LOG_FORMAT"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		BrevoAPIKey:   os.Getenv("BREVO_API_KEY"),
		EmailFrom:     getenv("EMAIL_FROM", "auth@newroots.tech"),
		Upload: upload.Config{
			Bucket:    os.Getenv("PORTFOLIO_S3_BUCKET"),
			Region:    os.Getenv("PORTFOLIO_S3_REGION"),
			Endpoint:  os.Getenv("PORTFOLIO_S3_ENDPOINT"),
			AccessKey: os.Getenv("PORTFOLIO_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("PORTFOLIO_S3_SECRET_KEY"),
			PublicURL: os.Getenv("PORTFOLIO_S3_PUBLIC_URL"),
		},
		CORSOrigins: defaultCORSOrigins,
	}

	if v := os.Getenv("PORTFOLIO_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.Secret == "" {
		if !cfg.DevMode {
			return cfg, errors.New("PORTFOLIO_SECRET is required unless PORTFOLIO_DEV_MODE is set")
		}
		cfg.Secret = devSecret
	}

	if cfg.AdminPassword == "" {
		if !cfg.DevMode {
			return cfg, errors.New("ADMIN_PASSWORD is required unless PORTFOLIO_DEV_MODE is set")
		}
		cfg.AdminPassword = devAdminPassword
	}

	return cfg, nil
}
