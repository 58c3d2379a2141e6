package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskColumns = `id::text, user_id::text, title, to_char(due_date, 'YYYY-MM-DD'), status, created_at`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var status string
	var createdAt *time.Time
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.DueDate, &status, &createdAt); err != nil {
		return task.Task{}, err
	}
	t.Status = task.TaskStatus(status)
	t.CreatedAt = timestamp.FromNullableTime(createdAt)
	return t, nil
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO tasks (id, user_id, title, due_date, status)
		VALUES ($1, $2, $3, $4::date, $5)
		RETURNING ` + taskColumns

	created, err := scanTask(q.QueryRow(ctx, query, id.String(), t.UserID, t.Title, t.DueDate, string(t.Status)))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := uuid.Parse(id); err != nil {
		return task.Task{}, task.ErrTaskNotFound
	}

	t, err := scanTask(q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return t, nil
}

// UpdateStatus implements task.TaskRepository.
func (r *taskRepositoryImpl) UpdateStatus(ctx context.Context, id string, status task.TaskStatus) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := uuid.Parse(id); err != nil {
		return task.Task{}, task.ErrTaskNotFound
	}

	query := `UPDATE tasks SET status = $1 WHERE id = $2 RETURNING ` + taskColumns
	t, err := scanTask(q.QueryRow(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return t, nil
}

// ListAll implements task.TaskRepository.
func (r *taskRepositoryImpl) ListAll(ctx context.Context) ([]task.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks`)
}

// ListByUser implements task.TaskRepository.
func (r *taskRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]task.Task, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []task.Task{}, nil
	}
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1`, userID)
}

// CountPendingByUser implements task.TaskRepository.
func (r *taskRepositoryImpl) CountPendingByUser(ctx context.Context) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT user_id::text, COUNT(*) FROM tasks WHERE status = $1 GROUP BY user_id`,
		string(task.TaskStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan pending task count: %w", err)
		}
		counts[userID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending task counts: %w", err)
	}
	return counts, nil
}

func (r *taskRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}
