package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"task-time-tracker/backend/internal/config"
	"task-time-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
)

func TestApplicationStartup(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("REDIS_HOST", "localhost")
	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("REDIS_HOST")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg == nil {
		t.Fatal("Configuration should not be nil")
	}

	t.Log("Application configuration loaded successfully")
}

func TestBuildRouter_RegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("RATE_LIMIT_ENABLED", "false")
	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("RATE_LIMIT_ENABLED")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	router := buildRouter(cfg, nil,
		services.NewTaskService(nil),
		services.NewProjectService(nil),
		services.NewAuthService(),
		services.NewRegisterService(),
	)

	// The liveness endpoint needs no auth and no backing stores.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health/live", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d from liveness endpoint, got %d", http.StatusOK, w.Code)
	}

	// API routes reject anonymous requests.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/tasks/today", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d without a token, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestConfigurationValues(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		expected string
	}{
		{
			name:     "ENVIRONMENT environment variable",
			envVar:   "ENVIRONMENT",
			envValue: "production",
			expected: "production",
		},
		{
			name:     "REDIS_HOST environment variable",
			envVar:   "REDIS_HOST",
			envValue: "localhost",
			expected: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envVar, tt.envValue)
			defer os.Unsetenv(tt.envVar)

			value := os.Getenv(tt.envVar)
			if value != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, value)
			}
		})
	}
}
