package task

import "context"

type TaskService interface {
	// Create assigns a task to an employee (manager only)
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)

	// Toggle flips pending/completed. Employees may only toggle their own tasks.
	Toggle(ctx context.Context, id string, actorID string, actorIsManager bool) (TaskResponse, error)

	ListMine(ctx context.Context, userID string) ([]TaskResponse, error)
	List(ctx context.Context, filter TaskFilter) (ListTaskResponse, error)
}
