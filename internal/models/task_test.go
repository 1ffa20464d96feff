package models_test

import (
	"testing"
	"time"

	"task-time-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestNewTask_Defaults(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	task := models.NewTask(userID, "Write report", 45, testNow)

	if !task.Active {
		t.Error("Expected new task to be active")
	}
	if task.Completed {
		t.Error("Expected new task to be incomplete")
	}
	if task.Priority != nil {
		t.Errorf("Expected nil priority, got %v", *task.Priority)
	}
	if task.CompletedDate != nil {
		t.Errorf("Expected nil completed date, got %v", *task.CompletedDate)
	}
	if task.ActualMins != nil {
		t.Errorf("Expected nil actual mins, got %d", *task.ActualMins)
	}
	if task.ExpectedMins != 45 {
		t.Errorf("Expected 45 expected mins, got %d", task.ExpectedMins)
	}
	if task.UserID != userID {
		t.Errorf("Expected user %s, got %s", userID, task.UserID)
	}
	if !task.CreatedDate.Equal(testNow) {
		t.Errorf("Expected created date %v, got %v", testNow, task.CreatedDate)
	}
}

func TestApplyTransition_NoChange(t *testing.T) {
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)

	changes := models.ApplyTransition(task.State(), &task, testNow)

	if len(changes) != 0 {
		t.Errorf("Expected no history records, got %d", len(changes))
	}
}

func TestApplyTransition_Deactivate(t *testing.T) {
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)
	prev := task.State()

	task.Active = false
	changes := models.ApplyTransition(prev, &task, testNow)

	if len(changes) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(changes))
	}
	rec := changes[0]
	if rec.InactiveDatetime == nil || !rec.InactiveDatetime.Equal(testNow) {
		t.Errorf("Expected inactive datetime %v, got %v", testNow, rec.InactiveDatetime)
	}
	if rec.ActiveDatetime != nil {
		t.Error("Expected nil active datetime")
	}
	if rec.CompletedDatetime != nil {
		t.Error("Expected nil completed datetime")
	}
	if rec.TaskID != task.ID {
		t.Errorf("Expected record for task %s, got %s", task.ID, rec.TaskID)
	}
}

func TestApplyTransition_Reactivate(t *testing.T) {
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)
	task.Active = false
	prev := task.State()

	task.Active = true
	changes := models.ApplyTransition(prev, &task, testNow)

	if len(changes) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(changes))
	}
	rec := changes[0]
	if rec.ActiveDatetime == nil || !rec.ActiveDatetime.Equal(testNow) {
		t.Errorf("Expected active datetime %v, got %v", testNow, rec.ActiveDatetime)
	}
	if rec.InactiveDatetime != nil || rec.CompletedDatetime != nil {
		t.Error("Expected only the active datetime to be set")
	}
}

func TestApplyTransition_Complete(t *testing.T) {
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)
	prev := task.State()

	task.Completed = true
	changes := models.ApplyTransition(prev, &task, testNow)

	// The forced deactivation happens after the axis diff, so only the
	// completion record is emitted.
	if len(changes) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(changes))
	}
	rec := changes[0]
	if rec.CompletedDatetime == nil || !rec.CompletedDatetime.Equal(testNow) {
		t.Errorf("Expected completed datetime %v, got %v", testNow, rec.CompletedDatetime)
	}
	if task.CompletedDate == nil || !task.CompletedDate.Equal(testNow) {
		t.Errorf("Expected completed date %v, got %v", testNow, task.CompletedDate)
	}
	if task.CompletedDate != nil && rec.CompletedDatetime != nil &&
		!task.CompletedDate.Equal(*rec.CompletedDatetime) {
		t.Error("Expected completed date and history timestamp to match")
	}
	if task.Active {
		t.Error("Expected completed task to be forced inactive")
	}
}

func TestApplyTransition_CompleteAndDeactivateTogether(t *testing.T) {
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)
	prev := task.State()

	task.Active = false
	task.Completed = true
	changes := models.ApplyTransition(prev, &task, testNow)

	if len(changes) != 2 {
		t.Fatalf("Expected 2 history records, got %d", len(changes))
	}
	if changes[0].InactiveDatetime == nil {
		t.Error("Expected first record to document the inactive transition")
	}
	if changes[1].CompletedDatetime == nil {
		t.Error("Expected second record to document the completed transition")
	}
}

func TestApplyTransition_Reopen(t *testing.T) {
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)
	task.Completed = true
	completedAt := testNow.Add(-time.Hour)
	task.CompletedDate = &completedAt
	task.Active = false
	prev := task.State()

	task.Completed = false
	changes := models.ApplyTransition(prev, &task, testNow)

	if len(changes) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(changes))
	}
	rec := changes[0]
	if rec.ActiveDatetime != nil || rec.InactiveDatetime != nil || rec.CompletedDatetime != nil {
		t.Error("Expected a bare reopen marker with all timestamps nil")
	}
	if task.CompletedDate != nil {
		t.Errorf("Expected completed date cleared, got %v", *task.CompletedDate)
	}
}

func TestApplyTransition_RepairsMissingCompletedDate(t *testing.T) {
	// A completed row without a completion date (imported or repaired data)
	// gets stamped even though the completed flag did not change.
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)
	task.Completed = true
	task.Active = false
	task.CompletedDate = nil
	prev := task.State()

	changes := models.ApplyTransition(prev, &task, testNow)

	if len(changes) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(changes))
	}
	if changes[0].CompletedDatetime == nil || !changes[0].CompletedDatetime.Equal(testNow) {
		t.Errorf("Expected completed datetime %v, got %v", testNow, changes[0].CompletedDatetime)
	}
	if task.CompletedDate == nil || !task.CompletedDate.Equal(testNow) {
		t.Error("Expected completed date stamped on the task")
	}
}

func TestApplyTransition_InvariantAcrossMutationSequences(t *testing.T) {
	// completed == true must imply active == false after every save,
	// whatever sequence of flag edits led there.
	task := models.NewTask(uuid.Must(uuid.NewV4()), "Task", 10, testNow)

	steps := []func(*models.Task){
		func(tk *models.Task) { tk.Completed = true },
		func(tk *models.Task) { tk.Active = true },
		func(tk *models.Task) { tk.Completed = false },
		func(tk *models.Task) { tk.Active = true; tk.Completed = true },
		func(tk *models.Task) { tk.Completed = true },
	}

	now := testNow
	for i, step := range steps {
		prev := task.State()
		step(&task)
		models.ApplyTransition(prev, &task, now)

		if task.Completed && task.Active {
			t.Fatalf("Step %d: completed task left active", i)
		}
		now = now.Add(time.Minute)
	}
}

func TestPriority_Labels(t *testing.T) {
	cases := []struct {
		priority models.Priority
		want     string
	}{
		{models.PriorityHigh, "High"},
		{models.PriorityMedium, "Medium"},
		{models.PriorityLow, "Low"},
		{models.Priority(0), "--"},
	}

	for _, tc := range cases {
		if got := tc.priority.String(); got != tc.want {
			t.Errorf("Priority(%d).String() = %q, want %q", tc.priority, got, tc.want)
		}
	}

	if models.Priority(4).Valid() {
		t.Error("Expected priority 4 to be invalid")
	}
	if !models.PriorityMedium.Valid() {
		t.Error("Expected medium priority to be valid")
	}
}
