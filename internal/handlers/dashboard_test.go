package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-time-tracker/backend/internal/handlers"
	"task-time-tracker/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

func setupDashboardHandler() (*handlers.DashboardHandler, *MockTaskService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTaskService{}
	handler := handlers.NewDashboardHandler(nil, mockService)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.Must(uuid.NewV4()).String())
		c.Next()
	})

	return handler, mockService, router
}

func intPtr(v int) *int { return &v }

func TestGetDashboard(t *testing.T) {
	handler, mockService, router := setupDashboardHandler()

	router.GET("/dashboard", handler.GetDashboard)

	mockService.tasks = []models.Task{
		{Name: "No time logged", ExpectedMins: 10},
		{Name: "Under estimate", ExpectedMins: 10, ActualMins: intPtr(5)},
		{Name: "Over estimate", ExpectedMins: 10, ActualMins: intPtr(15)},
	}

	req, _ := http.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Tasks []models.Task          `json:"tasks"`
		Stats map[string]interface{} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response.Tasks) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(response.Tasks))
	}
	if response.Stats["initial_estimated_mins"] != float64(30) {
		t.Errorf("Expected initial estimate 30, got %v", response.Stats["initial_estimated_mins"])
	}
	if response.Stats["actual_mins"] != float64(20) {
		t.Errorf("Expected actual 20, got %v", response.Stats["actual_mins"])
	}
	// The over-ran task counts at its logged 15, the other two at their
	// estimates: 10 + 10 + 15.
	if response.Stats["current_estimated_mins"] != float64(35) {
		t.Errorf("Expected current estimate 35, got %v", response.Stats["current_estimated_mins"])
	}
	if response.Stats["unfinished_mins"] != float64(35) {
		t.Errorf("Expected unfinished 35, got %v", response.Stats["unfinished_mins"])
	}
	if response.Stats["actual_display"] != "20 mins" {
		t.Errorf("Expected display '20 mins', got %v", response.Stats["actual_display"])
	}
}

func TestGetDashboardEmpty(t *testing.T) {
	handler, _, router := setupDashboardHandler()

	router.GET("/dashboard", handler.GetDashboard)

	req, _ := http.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Stats map[string]interface{} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	for _, key := range []string{"initial_estimated_mins", "actual_mins", "current_estimated_mins", "unfinished_mins"} {
		if response.Stats[key] != float64(0) {
			t.Errorf("Expected %s to be 0, got %v", key, response.Stats[key])
		}
	}
	if response.Stats["unfinished_display"] != "0 mins" {
		t.Errorf("Expected display '0 mins', got %v", response.Stats["unfinished_display"])
	}
}

func TestGetDashboardRejectsUnformattableStats(t *testing.T) {
	handler, mockService, router := setupDashboardHandler()

	router.GET("/dashboard", handler.GetDashboard)

	// The initial estimate formats fine; the actual sum is negative and
	// must still be caught.
	mockService.tasks = []models.Task{
		{Name: "Corrupt row", ExpectedMins: 10, ActualMins: intPtr(-5)},
	}

	req, _ := http.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestGetDashboardCompletedExcludedFromUnfinished(t *testing.T) {
	handler, mockService, router := setupDashboardHandler()

	router.GET("/dashboard", handler.GetDashboard)

	mockService.tasks = []models.Task{
		{Name: "Done", ExpectedMins: 60, ActualMins: intPtr(45), Completed: true},
		{Name: "Open", ExpectedMins: 30},
	}

	req, _ := http.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response struct {
		Stats map[string]interface{} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	// The done task logged 45 against a 60 estimate, so it counts at 60.
	if response.Stats["current_estimated_mins"] != float64(90) {
		t.Errorf("Expected current estimate 90, got %v", response.Stats["current_estimated_mins"])
	}
	if response.Stats["unfinished_mins"] != float64(30) {
		t.Errorf("Expected unfinished 30, got %v", response.Stats["unfinished_mins"])
	}
}
