package handlers

import (
	"errors"
	"net/http"
	"time"

	"task-time-tracker/backend/internal/models"
	"task-time-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return uuid.FromStringOrNil(userIDStr), true
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var taskInput struct {
		Name         string  `json:"name" binding:"required"`
		Category     string  `json:"category"`
		Notes        string  `json:"notes"`
		ExpectedMins int     `json:"expected_mins"`
		Priority     *int    `json:"priority"`
		ProjectID    *string `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// CreateTask stamps the created date when the zero value comes through.
	task := models.NewTask(userID, taskInput.Name, taskInput.ExpectedMins, time.Time{})
	task.Category = taskInput.Category
	task.Notes = taskInput.Notes
	if taskInput.Priority != nil {
		p := models.Priority(*taskInput.Priority)
		task.Priority = &p
	}
	if taskInput.ProjectID != nil {
		projectID := uuid.FromStringOrNil(*taskInput.ProjectID)
		if projectID == uuid.Nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		task.ProjectID = &projectID
	}

	if err := h.taskService.CreateTask(h.db, &task); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sortBy := c.DefaultQuery("sortBy", "created_date")
	order := c.DefaultQuery("order", "desc")
	page := c.DefaultQuery("page", "1")
	pageSize := c.DefaultQuery("pageSize", "10")

	tasks, total, err := h.taskService.GetTasksPaginated(h.db, userID, sortBy, order, page, pageSize)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": total,
	})
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)
	task, err := h.taskService.GetTaskByID(h.db, userID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)

	var taskInput struct {
		Name         *string `json:"name"`
		Category     *string `json:"category"`
		Notes        *string `json:"notes"`
		ExpectedMins *int    `json:"expected_mins"`
		ActualMins   *int    `json:"actual_mins"`
		Completed    *bool   `json:"completed"`
		Active       *bool   `json:"active"`
		Priority     *int    `json:"priority"`
		ProjectID    *string `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := services.TaskUpdate{
		Name:         taskInput.Name,
		Category:     taskInput.Category,
		Notes:        taskInput.Notes,
		ExpectedMins: taskInput.ExpectedMins,
		ActualMins:   taskInput.ActualMins,
		Completed:    taskInput.Completed,
		Active:       taskInput.Active,
	}
	if taskInput.Priority != nil {
		p := models.Priority(*taskInput.Priority)
		upd.Priority = &p
	}
	if taskInput.ProjectID != nil {
		projectID := uuid.FromStringOrNil(*taskInput.ProjectID)
		if projectID == uuid.Nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		upd.ProjectID = &projectID
	}

	task, err := h.taskService.UpdateTask(h.db, userID, id, upd)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)
	err := h.taskService.DeleteTask(h.db, userID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *TaskHandler) GetTaskHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)

	changes, err := h.taskService.TaskHistory(h.db, userID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": changes})
}

func (h *TaskHandler) GetTodaysTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.TodaysTasks(h.db, userID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) GetActiveTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.ActiveTasks(h.db, userID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) GetCompletedTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.CompletedTasks(h.db, userID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "task not found",
		})
	case errors.Is(err, services.ErrInvalidExpectedMins),
		errors.Is(err, services.ErrInvalidActualMins),
		errors.Is(err, services.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process task request",
		})
	}
}
