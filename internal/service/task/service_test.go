package task

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/pubsub"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTaskRepo struct {
	tasks []task.Task
}

func (m *mockTaskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	t.ID = fmt.Sprintf("t%d", len(m.tasks)+1)
	t.CreatedAt = timestamp.FromTime(time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, task.ErrTaskNotFound
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id string, status task.TaskStatus) (task.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			return m.tasks[i], nil
		}
	}
	return task.Task{}, task.ErrTaskNotFound
}

func (m *mockTaskRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	return append([]task.Task{}, m.tasks...), nil
}

func (m *mockTaskRepo) ListByUser(ctx context.Context, userID string) ([]task.Task, error) {
	var out []task.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) CountPendingByUser(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, t := range m.tasks {
		if t.IsPending() {
			counts[t.UserID]++
		}
	}
	return counts, nil
}

type mockEmployeeRepo struct {
	employee.EmployeeRepository
	profiles []employee.EmployeeProfile
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string) (employee.EmployeeProfile, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return employee.EmployeeProfile{}, employee.ErrEmployeeNotFound
}

func (m *mockEmployeeRepo) ListAll(ctx context.Context) ([]employee.EmployeeProfile, error) {
	return m.profiles, nil
}

type recordingPublisher struct {
	changes []pubsub.Change
}

func (p *recordingPublisher) Publish(ctx context.Context, change pubsub.Change) error {
	p.changes = append(p.changes, change)
	return nil
}

func seededTask(id, userID string, status task.TaskStatus, day int) task.Task {
	return task.Task{
		ID:        id,
		UserID:    userID,
		Title:     "task " + id,
		Status:    status,
		CreatedAt: timestamp.FromTime(time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC)),
	}
}

func newFixture() (*mockTaskRepo, *recordingPublisher, task.TaskService) {
	tasks := &mockTaskRepo{tasks: []task.Task{
		seededTask("a", "u1", task.TaskStatusPending, 1),
		seededTask("b", "u2", task.TaskStatusPending, 3),
		seededTask("c", "u1", task.TaskStatusCompleted, 4),
		seededTask("d", "gone", task.TaskStatusPending, 2),
	}}
	employees := &mockEmployeeRepo{profiles: []employee.EmployeeProfile{
		{ID: "u1", Name: "Ayu", Role: employee.RoleEmployee},
		{ID: "u2", Name: "Budi", Role: employee.RoleEmployee},
		{ID: "m1", Name: "Maya", Role: employee.RoleManager},
	}}
	pub := &recordingPublisher{}
	return tasks, pub, NewTaskService(tasks, employees, pub, time.UTC)
}

func TestCreate(t *testing.T) {
	repo, pub, svc := newFixture()
	due := "2024-03-29"

	resp, err := svc.Create(context.Background(), task.CreateTaskRequest{UserID: "u2", Title: " Quarterly report ", DueDate: &due})
	require.NoError(t, err)

	assert.Equal(t, "Budi", resp.EmployeeName)
	assert.Equal(t, "Quarterly report", resp.Title)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2024-03-29", *resp.DueDate)
	assert.Len(t, repo.tasks, 5)
	require.Len(t, pub.changes, 1)
	assert.Equal(t, pubsub.CollectionTasks, pub.changes[0].Collection)
	assert.Equal(t, "u2", pub.changes[0].UserID)
}

func TestCreate_Errors(t *testing.T) {
	_, _, svc := newFixture()

	_, err := svc.Create(context.Background(), task.CreateTaskRequest{UserID: "nobody", Title: "x"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	bad := "tomorrow"
	_, err = svc.Create(context.Background(), task.CreateTaskRequest{DueDate: &bad})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "user_id")
	assert.Contains(t, m, "title")
	assert.Contains(t, m, "due_date")
}

func TestToggle(t *testing.T) {
	_, pub, svc := newFixture()

	resp, err := svc.Toggle(context.Background(), "a", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	resp, err = svc.Toggle(context.Background(), "a", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.Toggle(context.Background(), "b", "u1", false)
	assert.ErrorIs(t, err, task.ErrTaskForbidden)

	resp, err = svc.Toggle(context.Background(), "d", "m1", true)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", resp.EmployeeName)

	_, err = svc.Toggle(context.Background(), "zzz", "m1", true)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	assert.Len(t, pub.changes, 3)
}

func TestListMine_NewestFirst(t *testing.T) {
	_, _, svc := newFixture()

	resp, err := svc.ListMine(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, resp, 2)
	assert.Equal(t, "c", resp[0].ID)
	assert.Equal(t, "a", resp[1].ID)
	assert.Equal(t, "Ayu", resp[0].EmployeeName)
}

func TestList(t *testing.T) {
	_, _, svc := newFixture()

	resp, err := svc.List(context.Background(), task.TaskFilter{})
	require.NoError(t, err)
	ids := []string{}
	for _, r := range resp.Tasks {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "d", "a"}, ids)
	assert.Equal(t, "Unknown", resp.Tasks[1].EmployeeName)

	resp, err = svc.List(context.Background(), task.TaskFilter{Status: "all", EmployeeID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)

	resp, err = svc.List(context.Background(), task.TaskFilter{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)

	_, err = svc.List(context.Background(), task.TaskFilter{Status: "archived"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
