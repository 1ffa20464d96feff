package services

import (
	"fmt"
	"time"

	"task-time-tracker/backend/internal/clock"
	"task-time-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// DateOrderError rejects a project whose start date falls after its end
// date. It carries both dates so the caller can point at the conflicting
// pair.
type DateOrderError struct {
	StartDate time.Time
	EndDate   time.Time
}

func (e *DateOrderError) Error() string {
	return fmt.Sprintf("start_date (%s) cannot come after end_date (%s)",
		e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
}

// ProjectInput is the validated field set for a new project.
type ProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Validate runs before any entity is built, so a rejected input never
// leaves partial state behind.
func (in ProjectInput) Validate() error {
	if in.StartDate != nil && in.EndDate != nil && in.StartDate.After(*in.EndDate) {
		return &DateOrderError{StartDate: *in.StartDate, EndDate: *in.EndDate}
	}
	return nil
}

type ProjectService interface {
	CreateProject(db *gorm.DB, userID uuid.UUID, input ProjectInput) (models.Project, error)
	GetProjectByID(db *gorm.DB, userID, id uuid.UUID) (models.Project, error)
	GetProjects(db *gorm.DB, userID uuid.UUID) ([]models.Project, error)
}

type ProjectServiceImpl struct {
	clock clock.Clock
}

func NewProjectService(clk clock.Clock) *ProjectServiceImpl {
	return &ProjectServiceImpl{clock: clk}
}

func (s *ProjectServiceImpl) CreateProject(db *gorm.DB, userID uuid.UUID, input ProjectInput) (models.Project, error) {
	if err := input.Validate(); err != nil {
		return models.Project{}, err
	}

	project := models.Project{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedDate: s.clock.Now(),
	}

	if err := db.Create(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// GetProjectByID only sees the user's own rows; another user's project
// reads as not found.
func (s *ProjectServiceImpl) GetProjectByID(db *gorm.DB, userID, id uuid.UUID) (models.Project, error) {
	var project models.Project
	err := db.First(&project, "id = ? AND user_id = ?", id, userID).Error
	return project, err
}

func (s *ProjectServiceImpl) GetProjects(db *gorm.DB, userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := db.
		Where("user_id = ?", userID).
		Order("created_date desc").
		Find(&projects).Error
	return projects, err
}
