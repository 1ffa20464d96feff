package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-time-tracker/backend/internal/handlers"
	"task-time-tracker/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockAuthService struct {
	rejectRefresh bool
}

func (m *MockAuthService) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *MockAuthService) GenerateToken(db *gorm.DB, userID uuid.UUID) (string, string, error) {
	return "access", "refresh", nil
}

func (m *MockAuthService) RefreshToken(db *gorm.DB, refreshToken string) (string, string, int64, error) {
	if m.rejectRefresh {
		return "", "", 0, errors.New("token expired")
	}
	return "new-access", "new-refresh", 3600, nil
}

func (m *MockAuthService) RevokeToken(db *gorm.DB, refreshToken string) error {
	return nil
}

func (m *MockAuthService) CleanupExpiredTokens(db *gorm.DB) (int64, error) {
	return 0, nil
}

func setupRefreshHandler() (*MockAuthService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockAuthService{}
	handler := handlers.NewRefreshHandler(nil, mockService)
	router := gin.New()
	router.POST("/auth/refresh", handler.Refresh)
	return mockService, router
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	_, router := setupRefreshHandler()

	bodyJSON, _ := json.Marshal(map[string]string{"refresh_token": "old-refresh"})
	req, _ := http.NewRequest("POST", "/auth/refresh", bytes.NewBuffer(bodyJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response handlers.RefreshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.AccessToken != "new-access" || response.RefreshToken != "new-refresh" {
		t.Errorf("Expected a rotated token pair, got %+v", response)
	}
	if response.TokenType != "Bearer" {
		t.Errorf("Expected token_type 'Bearer', got '%s'", response.TokenType)
	}
	if response.ExpiresIn != 3600 {
		t.Errorf("Expected expires_in 3600, got %d", response.ExpiresIn)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	mockService, router := setupRefreshHandler()
	mockService.rejectRefresh = true

	bodyJSON, _ := json.Marshal(map[string]string{"refresh_token": "stale"})
	req, _ := http.NewRequest("POST", "/auth/refresh", bytes.NewBuffer(bodyJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	_, router := setupRefreshHandler()

	req, _ := http.NewRequest("POST", "/auth/refresh", bytes.NewBuffer([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
