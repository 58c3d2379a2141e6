package analytics

import (
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/shopspring/decimal"
)

// WorkSession is a check-in paired with its check-out. CheckOutAt is nil for
// a session still open at the end of the event stream; its duration is 0.
type WorkSession struct {
	UserID     string
	CheckInAt  time.Time
	CheckOutAt *time.Time
	DurationMs int64
}

func (s WorkSession) IsOpen() bool {
	return s.CheckOutAt == nil
}

type AnomalyKind string

const (
	// AnomalySupersededCheckIn is a check-in replaced by a later check-in
	// before any check-out.
	AnomalySupersededCheckIn AnomalyKind = "superseded_check_in"
	// AnomalyStrayCheckOut is a check-out with no open check-in.
	AnomalyStrayCheckOut AnomalyKind = "stray_check_out"
)

// Anomaly is an unmatched event. It never contributes to durations.
type Anomaly struct {
	Kind    AnomalyKind
	UserID  string
	EventID string
	At      time.Time
}

// SessionResult is the reconstruction of one user's events over a range.
type SessionResult struct {
	UserID          string
	Sessions        []WorkSession
	DaysPresent     int
	PresentDates    []string // ascending
	TotalDurationMs int64
	Anomalies       []Anomaly
	// Malformed counts the user's events dropped for an unreadable timestamp
	Malformed int
}

// Snapshot is the immutable input of one aggregation.
type Snapshot struct {
	Profiles []employee.EmployeeProfile
	Events   []attendance.AttendanceEvent
	Leaves   []leave.LeaveRequest
	Tasks    []task.Task
}

type StatsQuery struct {
	Range           DateRange
	Branch          string // exact match; "" or "all" disables the filter
	IncludeManagers bool
}

// MetricsRow is one user's aggregate over a range.
type MetricsRow struct {
	UserID           string
	Name             string
	EmployeeID       string
	Branch           string
	Position         string
	DaysPresent      int
	TotalHours       decimal.Decimal // rounded to one decimal place
	LeaveCount       int
	PendingTaskCount int
	AnomalyCount     int
	OpenSessions     int
}

// Rollup sums the rows of a report.
type Rollup struct {
	Employees        int
	DaysPresent      int
	TotalHours       decimal.Decimal
	LeaveCount       int
	PendingTaskCount int
	AnomalyCount     int
}

type StatsReport struct {
	Range     DateRange
	Rows      []MetricsRow
	Rollup    Rollup
	Anomalies []Anomaly
	// Malformed counts in-scope events dropped for an unreadable timestamp
	Malformed int
}
