package employee

import (
	"context"
)

// EmployeeService defines business logic for employee profile operations
type EmployeeService interface {
	// GetEmployee retrieves a single profile by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee adds a profile (manager only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes a profile; attendance, leave and task records are kept
	DeleteEmployee(ctx context.Context, id string, actorID string) error

	// ListEmployees searches, filters and paginates profiles (manager only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// ListBranches returns the sorted distinct non-empty branches
	ListBranches(ctx context.Context) ([]string, error)
}
