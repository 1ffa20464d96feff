package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Expected default environment development, got %s", cfg.Server.Environment)
	}
	if cfg.Database.Name != "task_time_tracker" {
		t.Errorf("Expected default database name task_time_tracker, got %s", cfg.Database.Name)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected 25 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Redis.PoolSize != 10 {
		t.Errorf("Expected redis pool size 10, got %d", cfg.Redis.PoolSize)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("Expected scheduler enabled by default")
	}
	if cfg.Scheduler.Queue != "scheduled" {
		t.Errorf("Expected scheduler queue 'scheduled', got %s", cfg.Scheduler.Queue)
	}
	if cfg.Auth.AccessTokenTTL != time.Hour {
		t.Errorf("Expected access token TTL 1h, got %v", cfg.Auth.AccessTokenTTL)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("Expected rate limiting enabled by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DB_NAME", "tracker_test")
	os.Setenv("WORKER_CONCURRENCY", "8")
	os.Setenv("SCHEDULER_ENABLED", "false")
	os.Setenv("READ_TIMEOUT", "45s")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("WORKER_CONCURRENCY")
		os.Unsetenv("SCHEDULER_ENABLED")
		os.Unsetenv("READ_TIMEOUT")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.Name != "tracker_test" {
		t.Errorf("Expected database name tracker_test, got %s", cfg.Database.Name)
	}
	if cfg.Worker.Concurrency != 8 {
		t.Errorf("Expected worker concurrency 8, got %d", cfg.Worker.Concurrency)
	}
	if cfg.Scheduler.Enabled {
		t.Error("Expected scheduler disabled")
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	os.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	os.Setenv("RATE_LIMIT_ENABLED", "not-a-bool")
	os.Setenv("IDLE_TIMEOUT", "not-a-duration")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("RATE_LIMIT_ENABLED")
		os.Unsetenv("IDLE_TIMEOUT")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected fallback to 25 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("Expected fallback to rate limiting enabled")
	}
	if cfg.Server.IdleTimeout != 60*time.Second {
		t.Errorf("Expected fallback idle timeout 60s, got %v", cfg.Server.IdleTimeout)
	}
}

func TestLoadConfig_ProductionRequiresSecrets(t *testing.T) {
	os.Setenv("ENVIRONMENT", "production")
	defer os.Unsetenv("ENVIRONMENT")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected production config without DB password to fail")
	}

	os.Setenv("DB_PASSWORD", "s3cret")
	defer os.Unsetenv("DB_PASSWORD")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected production config without JWT secret to fail")
	}

	os.Setenv("JWT_SECRET", "real-secret")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := LoadConfig(); err != nil {
		t.Errorf("Expected production config with secrets to load, got %v", err)
	}
}

func TestConfig_Addresses(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := cfg.GetServerAddr(); got != "localhost:8080" {
		t.Errorf("GetServerAddr() = %s, want localhost:8080", got)
	}
	if got := cfg.GetRedisAddr(); got != "localhost:6379" {
		t.Errorf("GetRedisAddr() = %s, want localhost:6379", got)
	}

	dsn := cfg.GetDatabaseDSN()
	want := "host=localhost port=5432 user=postgres password= dbname=task_time_tracker sslmode=disable"
	if dsn != want {
		t.Errorf("GetDatabaseDSN() = %s, want %s", dsn, want)
	}

	if cfg.IsProduction() {
		t.Error("Expected development config to not be production")
	}
}
