package analytics

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"golang.org/x/sync/errgroup"
)

// RepositorySnapshotLoader reads the four collections concurrently.
type RepositorySnapshotLoader struct {
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	leaves     leave.LeaveRequestRepository
	tasks      task.TaskRepository
}

func NewRepositorySnapshotLoader(
	employees employee.EmployeeRepository,
	attendance attendance.AttendanceRepository,
	leaves leave.LeaveRequestRepository,
	tasks task.TaskRepository,
) *RepositorySnapshotLoader {
	return &RepositorySnapshotLoader{
		employees:  employees,
		attendance: attendance,
		leaves:     leaves,
		tasks:      tasks,
	}
}

// Load implements analytics.SnapshotLoader.
func (l *RepositorySnapshotLoader) Load(ctx context.Context) (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profiles, err := l.employees.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("load employees: %w", err)
		}
		snap.Profiles = profiles
		return nil
	})
	g.Go(func() error {
		events, err := l.attendance.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("load attendance: %w", err)
		}
		snap.Events = events
		return nil
	})
	g.Go(func() error {
		leaves, err := l.leaves.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("load leave requests: %w", err)
		}
		snap.Leaves = leaves
		return nil
	})
	g.Go(func() error {
		tasks, err := l.tasks.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		snap.Tasks = tasks
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}
	return snap, nil
}
