package employee

import (
	"strings"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DTOs
// ========================================

type CreateEmployeeRequest struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Branch     string `json:"branch"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Branch = strings.TrimSpace(r.Branch)
	r.Position = strings.TrimSpace(r.Position)

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if r.Role == "" {
		r.Role = string(RoleEmployee)
	}
	if !Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of: employee, manager")
	}

	return errs.OrNil()
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmployeeID   string `json:"employee_id"`
	Branch       string `json:"branch"`
	Position     string `json:"position"`
	Role         string `json:"role"`
	PendingTasks int    `json:"pending_tasks"`
}

func NewEmployeeResponse(p EmployeeProfile, pendingTasks int) EmployeeResponse {
	return EmployeeResponse{
		ID:           p.ID,
		Name:         p.Name,
		EmployeeID:   p.EmployeeID,
		Branch:       p.Branch,
		Position:     p.Position,
		Role:         string(p.Role),
		PendingTasks: pendingTasks,
	}
}

type EmployeeFilter struct {
	// Search matches name, employee code and branch, case-insensitively
	Search string `json:"search,omitempty"`
	Role   string `json:"role,omitempty"`   // employee, manager, all
	Branch string `json:"branch,omitempty"` // exact branch or all

	Page int `json:"page"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Role != "" && f.Role != "all" && !Role(f.Role).IsValid() {
		errs.Add("role", "role must be one of: employee, manager, all")
	}

	// Out of range pages are clamped, not rejected
	if f.Page < 1 {
		f.Page = 1
	}

	return errs.OrNil()
}

type ListEmployeeResponse struct {
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
