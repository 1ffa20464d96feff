package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Priority ranks a task. Higher values sort first; a nil priority on the
// task means unset.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return "--"
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

type Task struct {
	ID        uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null"`
	ProjectID *uuid.UUID `json:"project_id,omitempty" gorm:"type:uuid"`

	Name     string `json:"name" gorm:"not null"`
	Category string `json:"category"`
	Notes    string `json:"notes"`

	ExpectedMins int  `json:"expected_mins" gorm:"not null"`
	ActualMins   *int `json:"actual_mins"`

	Completed bool      `json:"completed" gorm:"not null;default:false"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	Priority  *Priority `json:"priority"`

	CreatedDate   time.Time  `json:"created_date"`
	CompletedDate *time.Time `json:"completed_date"`
}

// NewTask builds a task with the defaults every fresh task carries:
// active, incomplete, no priority and no completion date.
func NewTask(userID uuid.UUID, name string, expectedMins int, createdDate time.Time) Task {
	return Task{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       userID,
		Name:         name,
		ExpectedMins: expectedMins,
		Completed:    false,
		Active:       true,
		CreatedDate:  createdDate,
	}
}

// TaskState is the snapshot of a task's flag fields taken when the row was
// loaded. ApplyTransition diffs it against the fields about to be saved.
type TaskState struct {
	Active    bool
	Completed bool
}

// NewTaskState is the state of a task that was never persisted.
func NewTaskState() TaskState {
	return TaskState{Active: true, Completed: false}
}

func (t *Task) State() TaskState {
	return TaskState{Active: t.Active, Completed: t.Completed}
}

// TaskStatusChange documents one flag transition of a task. At most one of
// the three timestamps is set; a record with none set marks a completed
// task that was reopened. Rows are never updated or deleted.
type TaskStatusChange struct {
	ID     uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID uuid.UUID `json:"task_id" gorm:"type:uuid;not null"`

	ActiveDatetime    *time.Time `json:"active_datetime"`
	InactiveDatetime  *time.Time `json:"inactive_datetime"`
	CompletedDatetime *time.Time `json:"completed_datetime"`
}

func newStatusChange(taskID uuid.UUID) TaskStatusChange {
	return TaskStatusChange{
		ID:     uuid.Must(uuid.NewV4()),
		TaskID: taskID,
	}
}

// ApplyTransition compares the previously persisted flags against the
// values on task and returns the history records the save must write.
// It also keeps the completion bookkeeping consistent:
//
//  1. A flip of the active flag emits a record stamped on the matching
//     axis.
//  2. Completing a task (or finding a completed task with no completion
//     date, as happens with imported rows) stamps CompletedDate and emits
//     a record carrying the same instant. Reopening a completed task
//     clears CompletedDate and emits a bare record.
//  3. A completed task is never left active.
//
// The caller persists task and the returned records in one transaction so
// neither can outlive a failed write of the other.
func ApplyTransition(prev TaskState, task *Task, now time.Time) []TaskStatusChange {
	var changes []TaskStatusChange

	if !prev.Active && task.Active {
		rec := newStatusChange(task.ID)
		rec.ActiveDatetime = &now
		changes = append(changes, rec)
	} else if prev.Active && !task.Active {
		rec := newStatusChange(task.ID)
		rec.InactiveDatetime = &now
		changes = append(changes, rec)
	}

	switch {
	case task.Completed && (!prev.Completed || task.CompletedDate == nil):
		completedAt := now
		task.CompletedDate = &completedAt
		rec := newStatusChange(task.ID)
		rec.CompletedDatetime = &completedAt
		changes = append(changes, rec)
	case prev.Completed && !task.Completed:
		task.CompletedDate = nil
		changes = append(changes, newStatusChange(task.ID))
	}

	if task.Completed {
		task.Active = false
	}

	return changes
}
