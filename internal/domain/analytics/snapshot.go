package analytics

import (
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
)

// Snapshot records in document-store export shape.

type SnapshotUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
	Branch     string `json:"branch"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

type SnapshotEvent struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Type      string        `json:"type"`
	Timestamp timestamp.Raw `json:"timestamp"`
}

type SnapshotLeave struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Type      string        `json:"type"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Reason    *string       `json:"reason,omitempty"`
	Status    string        `json:"status"`
	CreatedAt timestamp.Raw `json:"createdAt"`
}

type SnapshotTask struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Title     string        `json:"title"`
	DueDate   *string       `json:"dueDate,omitempty"`
	Status    string        `json:"status"`
	CreatedAt timestamp.Raw `json:"createdAt"`
}

// Snapshot converts the request collections into engine input.
func (r EvaluateRequest) Snapshot() Snapshot {
	snap := Snapshot{
		Profiles: make([]employee.EmployeeProfile, 0, len(r.Users)),
		Events:   make([]attendance.AttendanceEvent, 0, len(r.Attendance)),
		Leaves:   make([]leave.LeaveRequest, 0, len(r.Leaves)),
		Tasks:    make([]task.Task, 0, len(r.Tasks)),
	}
	for _, u := range r.Users {
		role := employee.Role(u.Role)
		if role == "" {
			role = employee.RoleEmployee
		}
		snap.Profiles = append(snap.Profiles, employee.EmployeeProfile{
			ID:         u.ID,
			Name:       u.Name,
			EmployeeID: u.EmployeeID,
			Branch:     u.Branch,
			Position:   u.Position,
			Role:       role,
		})
	}
	for _, e := range r.Attendance {
		snap.Events = append(snap.Events, attendance.AttendanceEvent{
			ID:        e.ID,
			UserID:    e.UserID,
			Type:      attendance.EventType(e.Type),
			Timestamp: e.Timestamp,
		})
	}
	for _, l := range r.Leaves {
		snap.Leaves = append(snap.Leaves, leave.LeaveRequest{
			ID:        l.ID,
			UserID:    l.UserID,
			Type:      l.Type,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Reason:    l.Reason,
			Status:    leave.LeaveRequestStatus(l.Status),
			CreatedAt: l.CreatedAt,
		})
	}
	for _, t := range r.Tasks {
		snap.Tasks = append(snap.Tasks, task.Task{
			ID:        t.ID,
			UserID:    t.UserID,
			Title:     t.Title,
			DueDate:   t.DueDate,
			Status:    task.TaskStatus(t.Status),
			CreatedAt: t.CreatedAt,
		})
	}
	return snap
}
