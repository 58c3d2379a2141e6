package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/projector"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/pubsub"
	analyticsservice "github.com/cmlabs-hris/workforce-analytics-go/internal/service/analytics"
)

type TaskServiceImpl struct {
	taskRepo     task.TaskRepository
	employeeRepo employee.EmployeeRepository
	publisher    pubsub.Publisher
	loc          *time.Location
}

func NewTaskService(
	taskRepo task.TaskRepository,
	employeeRepo employee.EmployeeRepository,
	publisher pubsub.Publisher,
	loc *time.Location,
) task.TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		loc:          loc,
	}
}

var taskSchema = projector.Schema[task.Task]{
	Categories: map[string]func(task.Task) string{
		"status":      func(t task.Task) string { return string(t.Status) },
		"employee_id": func(t task.Task) string { return t.UserID },
	},
}

func createdAt(t task.Task) timestamp.Raw {
	return t.CreatedAt
}

// ownerName resolves a task owner's display name, falling back to
// employee.UnknownName for deleted profiles.
func (s *TaskServiceImpl) ownerName(ctx context.Context, userID string) (string, error) {
	p, err := s.employeeRepo.GetByID(ctx, userID)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.UnknownName, nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// Create implements task.TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	owner, err := s.employeeRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		UserID:  owner.ID,
		Title:   req.Title,
		DueDate: req.DueDate,
		Status:  task.TaskStatusPending,
	})
	if err != nil {
		slog.Error("Failed to create task", "user_id", owner.ID, "error", err)
		return task.TaskResponse{}, err
	}

	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionTasks, pubsub.ActionCreated, created.ID, owner.ID))
	return analyticsservice.TaskResponse(created, owner.Name, s.loc), nil
}

// Toggle implements task.TaskService.
func (s *TaskServiceImpl) Toggle(ctx context.Context, id string, actorID string, actorIsManager bool) (task.TaskResponse, error) {
	current, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !actorIsManager && current.UserID != actorID {
		return task.TaskResponse{}, task.ErrTaskForbidden
	}

	updated, err := s.taskRepo.UpdateStatus(ctx, id, current.Status.Toggled())
	if err != nil {
		return task.TaskResponse{}, err
	}
	name, err := s.ownerName(ctx, updated.UserID)
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to resolve task owner: %w", err)
	}

	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionTasks, pubsub.ActionUpdated, updated.ID, updated.UserID))
	return analyticsservice.TaskResponse(updated, name, s.loc), nil
}

// ListMine implements task.TaskService.
func (s *TaskServiceImpl) ListMine(ctx context.Context, userID string) ([]task.TaskResponse, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	name, err := s.ownerName(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task owner: %w", err)
	}
	analyticsservice.NewestFirst(tasks, createdAt)

	resp := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, analyticsservice.TaskResponse(t, name, s.loc))
	}
	return resp, nil
}

// List implements task.TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	if err := filter.Validate(); err != nil {
		return task.ListTaskResponse{}, err
	}

	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return task.ListTaskResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	profiles, err := s.employeeRepo.ListAll(ctx)
	if err != nil {
		return task.ListTaskResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	analyticsservice.NewestFirst(tasks, createdAt)
	page := projector.Project(tasks, taskSchema, projector.Query{
		Filters: map[string]string{"status": filter.Status, "employee_id": filter.EmployeeID},
		Page:    filter.Page,
	})

	resp := task.ListTaskResponse{
		TotalCount: page.TotalItems,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Showing:    page.Showing(),
		Tasks:      make([]task.TaskResponse, 0, len(page.Items)),
	}
	for _, t := range page.Items {
		name, ok := names[t.UserID]
		if !ok {
			name = employee.UnknownName
		}
		resp.Tasks = append(resp.Tasks, analyticsservice.TaskResponse(t, name, s.loc))
	}
	return resp, nil
}
