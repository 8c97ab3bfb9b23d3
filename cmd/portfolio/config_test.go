package main

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORTFOLIO_DEV_MODE", "true")
	t.Setenv("PORTFOLIO_SECRET", "")
	t.Setenv("PORTFOLIO_PORT", "")
	t.Setenv("PORTFOLIO_CORS_ORIGINS", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8000")
	}
	if cfg.Secret != devSecret {
		t.Errorf("Secret = %q, want dev default", cfg.Secret)
	}
	if cfg.AdminEmail != "admin@example.com" {
		t.Errorf("AdminEmail = %q, want %q", cfg.AdminEmail, "admin@example.com")
	}
	if cfg.AdminPassword != devAdminPassword {
		t.Errorf("AdminPassword = %q, want dev default", cfg.AdminPassword)
	}
	if len(cfg.CORSOrigins) != len(defaultCORSOrigins) {
		t.Errorf("CORSOrigins = %v, want defaults", cfg.CORSOrigins)
	}
}

func TestLoadConfigRequiresSecretOutsideDevMode(t *testing.T) {
	t.Setenv("PORTFOLIO_DEV_MODE", "")
	t.Setenv("PORTFOLIO_SECRET", "")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error without secret in production mode")
	}
}

func TestLoadConfigRequiresAdminPasswordOutsideDevMode(t *testing.T) {
	t.Setenv("PORTFOLIO_DEV_MODE", "")
	t.Setenv("PORTFOLIO_SECRET", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error without admin password in production mode")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_DEV_MODE", "")
	t.Setenv("PORTFOLIO_SECRET", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "hunter22")
	t.Setenv("PORTFOLIO_PORT", "9000")
	t.Setenv("PORTFOLIO_TRUST_PROXY", "1")
	t.Setenv("PORTFOLIO_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("PORTFOLIO_S3_BUCKET", "media")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9000")
	}
	if cfg.Secret != "s3cret" {
		t.Errorf("Secret = %q, want %q", cfg.Secret, "s3cret")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
	if cfg.AdminPassword != "hunter22" {
		t.Errorf("AdminPassword = %q, want %q", cfg.AdminPassword, "hunter22")
	}
	if cfg.Upload.Bucket != "media" {
		t.Errorf("Upload.Bucket = %q, want %q", cfg.Upload.Bucket, "media")
	}
}
