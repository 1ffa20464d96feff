package services

import (
	"fmt"
	"time"

	"task-time-tracker/backend/internal/cache"
	"task-time-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService layers the multi-level cache over a TaskService. Reads
// serve from cache when possible; every write invalidates the task's own
// entry plus the per-user listing and dashboard keys, since any flag flip
// can change which bucket a task shows up in.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.MultiLevelCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.MultiLevelCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id.String())
}

func userTasksPattern(userID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s:*", userID.String())
}

func (s *CachedTaskService) invalidateUser(userID uuid.UUID) {
	s.cache.DeletePattern(userTasksPattern(userID))
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task *models.Task) error {
	if err := s.taskService.CreateTask(db, task); err != nil {
		return err
	}

	s.cache.Set(taskKey(task.ID), *task, 30*time.Minute)
	s.invalidateUser(task.UserID)

	return nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var cachedTask models.Task
	if err := s.cache.Get(taskKey(id), &cachedTask); err == nil {
		// The cache is keyed by task alone, so a hit still has to pass
		// the ownership check before it can be served.
		if cachedTask.UserID == userID {
			return cachedTask, nil
		}
		return models.Task{}, gorm.ErrRecordNotFound
	}

	task, err := s.taskService.GetTaskByID(db, userID, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) GetTasksPaginated(db *gorm.DB, userID uuid.UUID, sortBy, order, page, pageSize string) ([]models.Task, int64, error) {
	cacheKey := fmt.Sprintf("user_tasks:%s:page:%s:%s:%s:%s", userID.String(), sortBy, order, page, pageSize)

	var cachedResult struct {
		Tasks []models.Task `json:"tasks"`
		Total int64         `json:"total"`
	}
	if err := s.cache.Get(cacheKey, &cachedResult); err == nil {
		return cachedResult.Tasks, cachedResult.Total, nil
	}

	tasks, total, err := s.taskService.GetTasksPaginated(db, userID, sortBy, order, page, pageSize)
	if err != nil {
		return tasks, total, err
	}

	result := struct {
		Tasks []models.Task `json:"tasks"`
		Total int64         `json:"total"`
	}{
		Tasks: tasks,
		Total: total,
	}
	s.cache.Set(cacheKey, result, 5*time.Minute)

	return tasks, total, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, userID, id uuid.UUID, upd TaskUpdate) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, userID, id, upd)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, 30*time.Minute)
	s.invalidateUser(task.UserID)

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, userID, id); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))
	s.invalidateUser(userID)

	return nil
}

func (s *CachedTaskService) TaskHistory(db *gorm.DB, userID, taskID uuid.UUID) ([]models.TaskStatusChange, error) {
	// History is append-only but cheap to read; not worth caching.
	return s.taskService.TaskHistory(db, userID, taskID)
}

// TodaysTasks backs the dashboard, so it gets a short TTL: the statistics
// may lag a write from another process by at most a minute.
func (s *CachedTaskService) TodaysTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	cacheKey := fmt.Sprintf("user_tasks:%s:today", userID.String())

	var cachedTasks []models.Task
	if err := s.cache.Get(cacheKey, &cachedTasks); err == nil {
		return cachedTasks, nil
	}

	tasks, err := s.taskService.TodaysTasks(db, userID)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(cacheKey, tasks, time.Minute)

	return tasks, nil
}

func (s *CachedTaskService) ActiveTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	cacheKey := fmt.Sprintf("user_tasks:%s:active", userID.String())

	var cachedTasks []models.Task
	if err := s.cache.Get(cacheKey, &cachedTasks); err == nil {
		return cachedTasks, nil
	}

	tasks, err := s.taskService.ActiveTasks(db, userID)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(cacheKey, tasks, time.Minute)

	return tasks, nil
}

func (s *CachedTaskService) CompletedTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	cacheKey := fmt.Sprintf("user_tasks:%s:completed", userID.String())

	var cachedTasks []models.Task
	if err := s.cache.Get(cacheKey, &cachedTasks); err == nil {
		return cachedTasks, nil
	}

	tasks, err := s.taskService.CompletedTasks(db, userID)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(cacheKey, tasks, time.Minute)

	return tasks, nil
}

// DeactivateStaleTasks touches rows across users, so the whole per-user
// keyspace is flushed afterwards.
func (s *CachedTaskService) DeactivateStaleTasks(db *gorm.DB) (int64, error) {
	count, err := s.taskService.DeactivateStaleTasks(db)
	if count > 0 {
		s.cache.DeletePattern("user_tasks:*")
		s.cache.DeletePattern("task:*")
	}
	return count, err
}

func (s *CachedTaskService) GetCacheStats() map[string]interface{} {
	return s.cache.Stats()
}
