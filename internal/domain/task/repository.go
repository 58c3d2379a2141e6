package task

import "context"

type TaskRepository interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	UpdateStatus(ctx context.Context, id string, status TaskStatus) (Task, error)
	ListAll(ctx context.Context) ([]Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)

	// CountPendingByUser returns pending task counts keyed by user ID
	CountPendingByUser(ctx context.Context) (map[string]int, error)
}
