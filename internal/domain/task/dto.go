package task

import (
	"strings"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	UserID  string  `json:"user_id"`
	Title   string  `json:"title"`
	DueDate *string `json:"due_date,omitempty"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	}
	if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if r.DueDate != nil {
		if validator.IsEmpty(*r.DueDate) {
			r.DueDate = nil
		} else if _, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs.Add("due_date", "due_date must be in YYYY-MM-DD format")
		}
	}

	return errs.OrNil()
}

type TaskResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName string  `json:"employee_name"`
	Title        string  `json:"title"`
	DueDate      *string `json:"due_date"`
	Status       string  `json:"status"`
	CreatedAt    *string `json:"created_at"`
}

type TaskFilter struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Status     string `json:"status,omitempty"` // pending (default), completed, all
	Page       int    `json:"page"`
}

func (f *TaskFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status == "" {
		f.Status = string(TaskStatusPending)
	}
	if f.Status != "all" && !TaskStatus(f.Status).IsValid() {
		errs.Add("status", "status must be one of: pending, completed, all")
	}
	if f.Page < 1 {
		f.Page = 1
	}

	return errs.OrNil()
}

type ListTaskResponse struct {
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Tasks      []TaskResponse `json:"tasks"`
}
