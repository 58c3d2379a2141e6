package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProfile(t *testing.T, repo employee.EmployeeRepository, code string, role employee.Role) employee.EmployeeProfile {
	t.Helper()
	p, err := repo.Create(context.Background(), employee.EmployeeProfile{
		Name:       "Employee " + code,
		EmployeeID: code,
		Branch:     "Jakarta",
		Role:       role,
	})
	require.NoError(t, err)
	return p
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	created := createProfile(t, repo, "EMP-001", employee.RoleManager)
	require.NotEmpty(t, created.ID)

	t.Run("lookups", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, byID)

		byCode, err := repo.GetByEmployeeCode(ctx, "EMP-001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byCode.ID)

		exists, err := repo.ExistsByEmployeeCode(ctx, "EMP-001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
		_, err = repo.GetByEmployeeCode(ctx, "EMP-404")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := repo.Create(ctx, employee.EmployeeProfile{Name: "Dup", EmployeeID: "EMP-001", Role: employee.RoleEmployee})
		assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	})

	t.Run("delete", func(t *testing.T) {
		other := createProfile(t, repo, "EMP-002", employee.RoleEmployee)
		require.NoError(t, repo.Delete(ctx, other.ID))
		assert.ErrorIs(t, repo.Delete(ctx, other.ID), employee.ErrEmployeeNotFound)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	txManager := postgresql.NewTxManager(setup.DB)

	boom := errors.New("boom")
	err := txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		createProfile(t, repo, "EMP-TX", employee.RoleEmployee)
		if _, err := repo.Create(ctx, employee.EmployeeProfile{Name: "In tx", EmployeeID: "EMP-IN-TX", Role: employee.RoleEmployee}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := repo.ExistsByEmployeeCode(ctx, "EMP-IN-TX")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmployeeCode(ctx, "EMP-TX")
	require.NoError(t, err)
	assert.True(t, exists, "writes outside the transaction context are not rolled back")
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	profile := createProfile(t, postgresql.NewEmployeeRepository(setup.DB), "EMP-001", employee.RoleEmployee)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	in, err := repo.Create(ctx, attendance.AttendanceEvent{UserID: profile.ID, Type: attendance.EventCheckIn})
	require.NoError(t, err)
	require.NotNil(t, in.Timestamp.Time, "store assigns the timestamp")

	_, err = repo.Create(ctx, attendance.AttendanceEvent{UserID: profile.ID, Type: attendance.EventCheckOut})
	require.NoError(t, err)

	// An imported event without a timestamp reads back as missing
	_, err = setup.DB.Exec(ctx,
		`INSERT INTO attendance_events (id, user_id, type, recorded_at) VALUES (gen_random_uuid(), $1, 'check-in', NULL)`,
		profile.ID)
	require.NoError(t, err)

	mine, err := repo.ListByUser(ctx, profile.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	missing := 0
	for _, e := range mine {
		if e.Timestamp.IsMissing() {
			missing++
		}
	}
	assert.Equal(t, 1, missing)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLeaveRequestRepository_OneShotTransition(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	profile := createProfile(t, postgresql.NewEmployeeRepository(setup.DB), "EMP-001", employee.RoleEmployee)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	created, err := repo.Create(ctx, leave.LeaveRequest{
		UserID:    profile.ID,
		Type:      "Vacation",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-06",
		Status:    leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", created.StartDate)
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, profile.Name, *created.EmployeeName)

	approved, err := repo.UpdateStatus(ctx, created.ID, leave.LeaveRequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, approved.Status)

	_, err = repo.UpdateStatus(ctx, created.ID, leave.LeaveRequestStatusRejected)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestTaskRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	ayu := createProfile(t, employees, "EMP-001", employee.RoleEmployee)
	budi := createProfile(t, employees, "EMP-002", employee.RoleEmployee)
	repo := postgresql.NewTaskRepository(setup.DB)

	due := "2024-03-10"
	first, err := repo.Create(ctx, task.Task{UserID: ayu.ID, Title: "Report", DueDate: &due, Status: task.TaskStatusPending})
	require.NoError(t, err)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, due, *first.DueDate)

	_, err = repo.Create(ctx, task.Task{UserID: ayu.ID, Title: "Review", Status: task.TaskStatusPending})
	require.NoError(t, err)
	_, err = repo.Create(ctx, task.Task{UserID: budi.ID, Title: "Audit", Status: task.TaskStatusPending})
	require.NoError(t, err)

	done, err := repo.UpdateStatus(ctx, first.ID, task.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, task.TaskStatusCompleted, done.Status)

	counts, err := repo.CountPendingByUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{ayu.ID: 1, budi.ID: 1}, counts)

	mine, err := repo.ListByUser(ctx, ayu.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", task.TaskStatusCompleted)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}
