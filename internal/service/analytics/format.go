package analytics

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
)

// FormatTimestamp renders raw as RFC 3339 in loc, or nil when it is unreadable.
func FormatTimestamp(raw timestamp.Raw, loc *time.Location) *string {
	t, ok := Normalize(raw)
	if !ok {
		return nil
	}
	s := formatInstant(t, loc)
	return &s
}

func formatInstant(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.RFC3339)
}

// EventResponse renders an attendance event with its calendar date in loc.
func EventResponse(e attendance.AttendanceEvent, loc *time.Location) attendance.AttendanceEventResponse {
	resp := attendance.AttendanceEventResponse{
		ID:     e.ID,
		UserID: e.UserID,
		Type:   string(e.Type),
	}
	if t, ok := Normalize(e.Timestamp); ok {
		ts := formatInstant(t, loc)
		date := analytics.CalendarDate(t, loc)
		resp.Timestamp = &ts
		resp.Date = &date
	}
	return resp
}

// NewestFirst sorts items by descending instant, ties by ascending position.
// Items with an unreadable timestamp go last.
func NewestFirst[T any](items []T, ts func(T) timestamp.Raw) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, okA := Normalize(ts(a))
		tb, okB := Normalize(ts(b))
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
}

// OldestFirst sorts items by ascending instant. Items with an unreadable
// timestamp go last.
func OldestFirst[T any](items []T, ts func(T) timestamp.Raw) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, okA := Normalize(ts(a))
		tb, okB := Normalize(ts(b))
		switch {
		case okA && okB:
			return ta.Compare(tb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
}

func hoursFloat(ms int64) float64 {
	return HoursFromMs(ms).InexactFloat64()
}

func sessionResponses(sessions []analytics.WorkSession, loc *time.Location) []analytics.SessionResponse {
	out := make([]analytics.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp := analytics.SessionResponse{
			CheckInAt: formatInstant(s.CheckInAt, loc),
			Hours:     hoursFloat(s.DurationMs),
			Open:      s.IsOpen(),
		}
		if s.CheckOutAt != nil {
			checkOut := formatInstant(*s.CheckOutAt, loc)
			resp.CheckOutAt = &checkOut
		}
		out = append(out, resp)
	}
	return out
}

func anomalyResponses(anomalies []analytics.Anomaly, loc *time.Location) []analytics.AnomalyResponse {
	out := make([]analytics.AnomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, analytics.AnomalyResponse{
			Kind:    string(a.Kind),
			UserID:  a.UserID,
			EventID: a.EventID,
			At:      formatInstant(a.At, loc),
		})
	}
	return out
}

func anomaliesByKind(anomalies []analytics.Anomaly) map[string]int {
	counts := map[string]int{
		string(analytics.AnomalySupersededCheckIn): 0,
		string(analytics.AnomalyStrayCheckOut):     0,
	}
	for _, a := range anomalies {
		counts[string(a.Kind)]++
	}
	return counts
}

// TaskResponse renders a task with its owner's display name.
func TaskResponse(t task.Task, ownerName string, loc *time.Location) task.TaskResponse {
	return task.TaskResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		EmployeeName: ownerName,
		Title:        t.Title,
		DueDate:      t.DueDate,
		Status:       string(t.Status),
		CreatedAt:    FormatTimestamp(t.CreatedAt, loc),
	}
}

// LeaveResponse renders a leave request. A request whose owner was deleted
// reports the owner as employee.UnknownName.
func LeaveResponse(l leave.LeaveRequest, loc *time.Location) leave.LeaveRequestResponse {
	name := employee.UnknownName
	if l.EmployeeName != nil {
		name = *l.EmployeeName
	}
	return leave.LeaveRequestResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		EmployeeName: name,
		Type:         l.Type,
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		Reason:       l.Reason,
		Status:       string(l.Status),
		CreatedAt:    FormatTimestamp(l.CreatedAt, loc),
	}
}
