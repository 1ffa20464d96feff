package handlers

import (
	"errors"
	"net/http"
	"time"

	"task-time-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db             *gorm.DB
	projectService services.ProjectService
}

func NewProjectHandler(db *gorm.DB, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{db: db, projectService: projectService}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var projectInput struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&projectInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(projectInput.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted as YYYY-MM-DD"})
		return
	}
	endDate, err := parseDate(projectInput.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be formatted as YYYY-MM-DD"})
		return
	}

	project, err := h.projectService.CreateProject(h.db, userID, services.ProjectInput{
		Name:        projectInput.Name,
		Description: projectInput.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		handleProjectError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) GetProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projects, err := h.projectService.GetProjects(h.db, userID)
	if err != nil {
		handleProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)
	project, err := h.projectService.GetProjectByID(h.db, userID, id)
	if err != nil {
		handleProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func handleProjectError(c *gin.Context, err error) {
	var dateErr *services.DateOrderError
	switch {
	case errors.As(err, &dateErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      dateErr.Error(),
			"start_date": dateErr.StartDate.Format("2006-01-02"),
			"end_date":   dateErr.EndDate.Format("2006-01-02"),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "project not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process project request",
		})
	}
}
