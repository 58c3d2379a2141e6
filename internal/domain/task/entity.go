package task

import (
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskStatusCompleted {
		return TaskStatusPending
	}
	return TaskStatusCompleted
}

type Task struct {
	ID        string
	UserID    string
	Title     string
	DueDate   *string // YYYY-MM-DD
	Status    TaskStatus
	CreatedAt timestamp.Raw
}

func (t Task) IsPending() bool {
	return t.Status == TaskStatusPending
}
