package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (EmployeeProfile, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (EmployeeProfile, error)
	ExistsByEmployeeCode(ctx context.Context, employeeCode string) (bool, error)
	Create(ctx context.Context, profile EmployeeProfile) (EmployeeProfile, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]EmployeeProfile, error)
}

// Transactor runs fn in a transaction carried by the ctx it receives.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
