package handlers

import (
	"net/http"

	"task-time-tracker/backend/internal/services"
	"task-time-tracker/backend/internal/stats"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewDashboardHandler(db *gorm.DB, taskService services.TaskService) *DashboardHandler {
	return &DashboardHandler{db: db, taskService: taskService}
}

// GetDashboard returns today's task list together with the four summary
// statistics, each as raw minutes and as a human-readable string.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.TodaysTasks(h.db, userID)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	summary := stats.NewSummaryStats(services.Snapshots(tasks))

	initial := summary.InitialEstimatedTime()
	actual := summary.ActualTime()
	current := summary.CurrentEstimatedTime()
	unfinished := summary.UnfinishedTime()

	displays := make([]string, 4)
	for i, mins := range []int{initial, actual, current, unfinished} {
		display, err := stats.FormatMinutes(mins)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to format statistics"})
			return
		}
		displays[i] = display
	}
	initialStr, actualStr, currentStr, unfinishedStr := displays[0], displays[1], displays[2], displays[3]

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"stats": gin.H{
			"initial_estimated_mins":    initial,
			"initial_estimated_display": initialStr,
			"actual_mins":               actual,
			"actual_display":            actualStr,
			"current_estimated_mins":    current,
			"current_estimated_display": currentStr,
			"unfinished_mins":           unfinished,
			"unfinished_display":        unfinishedStr,
		},
	})
}
