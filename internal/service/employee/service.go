package employee

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/projector"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/pubsub"
)

type EmployeeServiceImpl struct {
	tx           employee.Transactor
	employeeRepo employee.EmployeeRepository
	taskRepo     task.TaskRepository
	publisher    pubsub.Publisher
}

func NewEmployeeService(
	tx employee.Transactor,
	employeeRepo employee.EmployeeRepository,
	taskRepo task.TaskRepository,
	publisher pubsub.Publisher,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		taskRepo:     taskRepo,
		publisher:    publisher,
	}
}

var employeeSchema = projector.Schema[employee.EmployeeProfile]{
	Search: []func(employee.EmployeeProfile) string{
		func(p employee.EmployeeProfile) string { return p.Name },
		func(p employee.EmployeeProfile) string { return p.EmployeeID },
		func(p employee.EmployeeProfile) string { return p.Branch },
	},
	Categories: map[string]func(employee.EmployeeProfile) string{
		"role":   func(p employee.EmployeeProfile) string { return string(p.Role) },
		"branch": func(p employee.EmployeeProfile) string { return p.Branch },
	},
	SortKeys: map[string]projector.SortKey[employee.EmployeeProfile]{
		"name": projector.TextKey(func(p employee.EmployeeProfile) string { return p.Name }),
	},
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	p, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	pending, err := s.taskRepo.CountPendingByUser(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return employee.NewEmployeeResponse(p, pending[p.ID]), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var created employee.EmployeeProfile
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.employeeRepo.ExistsByEmployeeCode(txCtx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to check employee code: %w", err)
		}
		if exists {
			return employee.ErrEmployeeCodeExists
		}

		created, err = s.employeeRepo.Create(txCtx, employee.EmployeeProfile{
			Name:       req.Name,
			EmployeeID: req.EmployeeID,
			Branch:     req.Branch,
			Position:   req.Position,
			Role:       employee.Role(req.Role),
		})
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "id", created.ID, "employee_id", created.EmployeeID, "role", created.Role)
	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionUsers, pubsub.ActionCreated, created.ID, created.ID))

	return employee.NewEmployeeResponse(created, 0), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string, actorID string) error {
	if id == actorID {
		return employee.ErrCannotDeleteSelf
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Employee deleted", "id", id, "actor_id", actorID)
	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionUsers, pubsub.ActionDeleted, id, id))
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	profiles, err := s.employeeRepo.ListAll(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	pending, err := s.taskRepo.CountPendingByUser(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	page := projector.Project(profiles, employeeSchema, projector.Query{
		Search:    filter.Search,
		Filters:   map[string]string{"role": filter.Role, "branch": filter.Branch},
		SortBy:    "name",
		SortOrder: projector.SortAsc,
		Page:      filter.Page,
	})

	resp := employee.ListEmployeeResponse{
		TotalCount: page.TotalItems,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Showing:    page.Showing(),
		Employees:  make([]employee.EmployeeResponse, 0, len(page.Items)),
	}
	for _, p := range page.Items {
		resp.Employees = append(resp.Employees, employee.NewEmployeeResponse(p, pending[p.ID]))
	}
	return resp, nil
}

// ListBranches implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListBranches(ctx context.Context) ([]string, error) {
	profiles, err := s.employeeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	branches := make([]string, 0)
	for _, p := range profiles {
		if p.Branch != "" {
			branches = append(branches, p.Branch)
		}
	}
	slices.Sort(branches)
	return slices.Compact(branches), nil
}
