package services

import (
	"errors"
	"strconv"
	"time"

	"task-time-tracker/backend/internal/clock"
	"task-time-tracker/backend/internal/models"
	"task-time-tracker/backend/internal/stats"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidExpectedMins = errors.New("expected minutes must not be negative")
	ErrInvalidActualMins   = errors.New("actual minutes must not be negative")
	ErrInvalidPriority     = errors.New("priority must be low, medium or high")
)

// TaskUpdate is a partial field set for an existing task. Nil fields are
// left untouched.
type TaskUpdate struct {
	Name         *string
	Category     *string
	Notes        *string
	ExpectedMins *int
	ActualMins   *int
	Completed    *bool
	Active       *bool
	Priority     *models.Priority
	ProjectID    *uuid.UUID
}

type TaskService interface {
	CreateTask(db *gorm.DB, task *models.Task) error
	GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error)
	GetTasksPaginated(db *gorm.DB, userID uuid.UUID, sortBy, order, page, pageSize string) ([]models.Task, int64, error)
	UpdateTask(db *gorm.DB, userID, id uuid.UUID, upd TaskUpdate) (models.Task, error)
	DeleteTask(db *gorm.DB, userID, id uuid.UUID) error
	TaskHistory(db *gorm.DB, userID, taskID uuid.UUID) ([]models.TaskStatusChange, error)
	TodaysTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	ActiveTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	CompletedTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	DeactivateStaleTasks(db *gorm.DB) (int64, error)
}

type TaskServiceImpl struct {
	clock clock.Clock
}

func NewTaskService(clk clock.Clock) *TaskServiceImpl {
	return &TaskServiceImpl{clock: clk}
}

// saveWithHistory runs the transition diff and writes the task together
// with its history records in one transaction, so a history row never
// survives a failed task write or vice versa.
func (s *TaskServiceImpl) saveWithHistory(db *gorm.DB, prev models.TaskState, task *models.Task, create bool) error {
	changes := models.ApplyTransition(prev, task, s.clock.Now())

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range changes {
			if err := tx.Create(&changes[i]).Error; err != nil {
				return err
			}
		}
		if create {
			return tx.Create(task).Error
		}
		return tx.Save(task).Error
	})
}

func validateTaskFields(task *models.Task) error {
	if task.ExpectedMins < 0 {
		return ErrInvalidExpectedMins
	}
	if task.ActualMins != nil && *task.ActualMins < 0 {
		return ErrInvalidActualMins
	}
	if task.Priority != nil && !task.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task *models.Task) error {
	if task.CreatedDate.IsZero() {
		task.CreatedDate = s.clock.Now()
	}
	if err := validateTaskFields(task); err != nil {
		return err
	}

	// A brand-new task starts from the constructor defaults, so the diff
	// only emits records when the caller created it in a non-default state.
	return s.saveWithHistory(db, models.NewTaskState(), task, true)
}

// GetTaskByID only sees the user's own rows. A task belonging to someone
// else looks exactly like a missing one.
func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.First(&task, "id = ? AND user_id = ?", id, userID).Error
	return task, err
}

var taskSortColumns = map[string]string{
	"created_date":  "created_date",
	"expected_mins": "expected_mins",
	"actual_mins":   "actual_mins",
	"priority":      "priority",
	"name":          "name",
}

func (s *TaskServiceImpl) GetTasksPaginated(db *gorm.DB, userID uuid.UUID, sortBy, order, page, pageSize string) ([]models.Task, int64, error) {
	column, ok := taskSortColumns[sortBy]
	if !ok {
		column = "created_date"
	}
	if order != "asc" {
		order = "desc"
	}

	pageNum, err := strconv.Atoi(page)
	if err != nil || pageNum < 1 {
		pageNum = 1
	}
	size, err := strconv.Atoi(pageSize)
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	query := db.Model(&models.Task{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err = query.
		Order(column + " " + order).
		Offset((pageNum - 1) * size).
		Limit(size).
		Find(&tasks).Error

	return tasks, total, err
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID, id uuid.UUID, upd TaskUpdate) (models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return models.Task{}, err
	}

	prev := task.State()

	if upd.Name != nil {
		task.Name = *upd.Name
	}
	if upd.Category != nil {
		task.Category = *upd.Category
	}
	if upd.Notes != nil {
		task.Notes = *upd.Notes
	}
	if upd.ExpectedMins != nil {
		task.ExpectedMins = *upd.ExpectedMins
	}
	if upd.ActualMins != nil {
		task.ActualMins = upd.ActualMins
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	if upd.Active != nil {
		task.Active = *upd.Active
	}
	if upd.Priority != nil {
		task.Priority = upd.Priority
	}
	if upd.ProjectID != nil {
		task.ProjectID = upd.ProjectID
	}

	if err := validateTaskFields(&task); err != nil {
		return models.Task{}, err
	}

	if err := s.saveWithHistory(db, prev, &task, false); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	result := db.Delete(&models.Task{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TaskHistory checks that the task belongs to the user before listing
// its status records.
func (s *TaskServiceImpl) TaskHistory(db *gorm.DB, userID, taskID uuid.UUID) ([]models.TaskStatusChange, error) {
	if _, err := s.GetTaskByID(db, userID, taskID); err != nil {
		return nil, err
	}
	var changes []models.TaskStatusChange
	err := db.Where("task_id = ?", taskID).Find(&changes).Error
	return changes, err
}

// TodaysTasks returns the user's active tasks, keeping recently completed
// ones visible: a task drops off only once its completion is older than a
// day. Ordered for the dashboard, incomplete and biggest estimates first.
func (s *TaskServiceImpl) TodaysTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	cutoff := s.clock.Now().Add(-24 * time.Hour)

	var tasks []models.Task
	err := db.
		Where("user_id = ?", userID).
		Where("active = ?", true).
		Where("completed_date IS NULL OR completed_date >= ?", cutoff).
		Order("completed asc").
		Order("expected_mins desc").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskServiceImpl) ActiveTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := db.
		Where("user_id = ?", userID).
		Where("active = ?", true).
		Where("completed = ?", false).
		Order("priority desc").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskServiceImpl) CompletedTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := db.
		Where("user_id = ?", userID).
		Where("completed = ?", true).
		Order("completed_date desc").
		Find(&tasks).Error
	return tasks, err
}

// DeactivateStaleTasks switches off active tasks not created today. Each
// row goes through the regular transition pipeline so the deactivation
// shows up in the status history like any hand-made change.
func (s *TaskServiceImpl) DeactivateStaleTasks(db *gorm.DB) (int64, error) {
	now := s.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var tasks []models.Task
	err := db.
		Where("active = ?", true).
		Where("created_date < ?", startOfDay).
		Find(&tasks).Error
	if err != nil {
		return 0, err
	}

	var count int64
	for i := range tasks {
		prev := tasks[i].State()
		tasks[i].Active = false
		if err := s.saveWithHistory(db, prev, &tasks[i], false); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Snapshots projects tasks onto the value type the stats package sums
// over.
func Snapshots(tasks []models.Task) []stats.TaskSnapshot {
	snaps := make([]stats.TaskSnapshot, len(tasks))
	for i, t := range tasks {
		snaps[i] = stats.TaskSnapshot{
			ExpectedMins: t.ExpectedMins,
			ActualMins:   t.ActualMins,
			Completed:    t.Completed,
		}
	}
	return snaps
}
