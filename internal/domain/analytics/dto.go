package analytics

import (
	"strings"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

// ========================================
// STATS DTOs
// ========================================

type StatsFilter struct {
	StartDate       string `json:"start_date,omitempty"` // defaults to the first of the current month
	EndDate         string `json:"end_date,omitempty"`   // defaults to today
	Branch          string `json:"branch,omitempty"`
	Search          string `json:"search,omitempty"`
	SortBy          string `json:"sort_by,omitempty"`    // defaults to days_present
	SortOrder       string `json:"sort_order,omitempty"` // asc, desc (default)
	Page            int    `json:"page"`
	IncludeManagers bool   `json:"include_managers,omitempty"`
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if f.StartDate != "" && f.EndDate != "" && len(errs) == 0 && f.StartDate > f.EndDate {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	if f.SortBy == "" {
		f.SortBy = "days_present"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}
	if f.Page < 1 {
		f.Page = 1
	}

	return errs.OrNil()
}

type StatsRowResponse struct {
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	EmployeeID       string  `json:"employee_id"`
	Branch           string  `json:"branch"`
	Position         string  `json:"position"`
	DaysPresent      int     `json:"days_present"`
	TotalHours       float64 `json:"total_hours"`
	LeaveCount       int     `json:"leave_count"`
	PendingTaskCount int     `json:"pending_task_count"`
	AnomalyCount     int     `json:"anomaly_count"`
	OpenSessions     int     `json:"open_sessions"`
}

type RollupResponse struct {
	Employees        int     `json:"employees"`
	DaysPresent      int     `json:"days_present"`
	TotalHours       float64 `json:"total_hours"`
	LeaveCount       int     `json:"leave_count"`
	PendingTaskCount int     `json:"pending_task_count"`
	AnomalyCount     int     `json:"anomaly_count"`
}

type StatsResponse struct {
	StartDate        string             `json:"start_date"`
	EndDate          string             `json:"end_date"`
	Rollup           RollupResponse     `json:"rollup"`
	AnomaliesByKind  map[string]int     `json:"anomalies_by_kind"`
	MalformedRecords int                `json:"malformed_records"`
	TotalCount       int                `json:"total_count"`
	Page             int                `json:"page"`
	PageSize         int                `json:"page_size"`
	TotalPages       int                `json:"total_pages"`
	Showing          string             `json:"showing"`
	Rows             []StatsRowResponse `json:"rows"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ========================================
// HISTORY DTOs
// ========================================

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

type HistoryFilter struct {
	Period string `json:"period,omitempty"` // daily, monthly (default), yearly
	// Date is YYYY-MM-DD, YYYY-MM or YYYY depending on Period; empty means now
	Date string `json:"date,omitempty"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Period == "" {
		f.Period = string(PeriodMonthly)
	}
	switch Period(f.Period) {
	case PeriodDaily:
		if f.Date != "" {
			if _, ok := validator.IsValidDate(f.Date); !ok {
				errs.Add("date", "date must be in YYYY-MM-DD format for a daily period")
			}
		}
	case PeriodMonthly:
		if f.Date != "" {
			if _, ok := validator.IsValidMonth(f.Date); !ok {
				errs.Add("date", "date must be in YYYY-MM format for a monthly period")
			}
		}
	case PeriodYearly:
		if f.Date != "" {
			if _, ok := validator.IsValidYear(f.Date); !ok {
				errs.Add("date", "date must be in YYYY format for a yearly period")
			}
		}
	default:
		errs.Add("period", ErrUnsupportedPeriod.Error())
	}

	return errs.OrNil()
}

type SessionResponse struct {
	CheckInAt  string  `json:"check_in_at"`
	CheckOutAt *string `json:"check_out_at"`
	Hours      float64 `json:"hours"`
	Open       bool    `json:"open"`
}

type AnomalyResponse struct {
	Kind    string `json:"kind"`
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
	At      string `json:"at"`
}

type LeaveSummaryResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type HistoryResponse struct {
	UserID           string                               `json:"user_id"`
	Name             string                               `json:"name"`
	Branch           string                               `json:"branch"`
	Position         string                               `json:"position"`
	Period           string                               `json:"period"`
	StartDate        string                               `json:"start_date"`
	EndDate          string                               `json:"end_date"`
	DaysPresent      int                                  `json:"days_present"`
	TotalHours       float64                              `json:"total_hours"`
	AverageHours     float64                              `json:"average_hours"`
	LeavesTaken      int                                  `json:"leaves_taken"`
	MalformedRecords int                                  `json:"malformed_records"`
	Leaves           []LeaveSummaryResponse               `json:"leaves"`
	Sessions         []SessionResponse                    `json:"sessions"`
	Anomalies        []AnomalyResponse                    `json:"anomalies"`
	Records          []attendance.AttendanceEventResponse `json:"records"`
}

// ========================================
// DAILY STATUS DTOs
// ========================================

type DailyStatusEntry struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Branch       string  `json:"branch"`
	Position     string  `json:"position"`
	FirstCheckIn *string `json:"first_check_in"`
}

type DailyStatusResponse struct {
	Date         string             `json:"date"`
	PresentCount int                `json:"present_count"`
	AbsentCount  int                `json:"absent_count"`
	Present      []DailyStatusEntry `json:"present"`
	Absent       []DailyStatusEntry `json:"absent"`
}

// ========================================
// DASHBOARD DTOs
// ========================================

type DashboardResponse struct {
	Today              attendance.TodayAttendanceResponse   `json:"today"`
	PendingTasks       int                                  `json:"pending_tasks"`
	UpcomingTasks      []task.TaskResponse                  `json:"upcoming_tasks"`
	ApprovedLeaveCount int                                  `json:"approved_leave_count"`
	RecentActivity     []attendance.AttendanceEventResponse `json:"recent_activity"`
	// PendingLeaveRequests is the team-wide approval queue, set for managers only
	PendingLeaveRequests *int `json:"pending_leave_requests,omitempty"`
}

// ========================================
// EVALUATE DTOs
// ========================================

// EvaluateRequest is a document-store export: camelCase fields, timestamps in
// any of the stored shapes.
type EvaluateRequest struct {
	StartDate       string             `json:"startDate"`
	EndDate         string             `json:"endDate"`
	Branch          string             `json:"branch,omitempty"`
	IncludeManagers bool               `json:"includeManagers,omitempty"`
	Users           []SnapshotUser     `json:"users"`
	Attendance      []SnapshotEvent    `json:"attendance"`
	Leaves          []SnapshotLeave    `json:"leaves"`
	Tasks           []SnapshotTask     `json:"tasks"`
	Sort            *EvaluateSortInput `json:"sort,omitempty"`
}

type EvaluateSortInput struct {
	Key   string `json:"key"`
	Order string `json:"order"`
	Page  int    `json:"page"`
}

func (r *EvaluateRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("endDate", "endDate must be on or after startDate")
	}

	for _, u := range r.Users {
		if validator.IsEmpty(u.ID) {
			errs.Add("users", "every user needs an id")
			break
		}
	}
	for _, e := range r.Attendance {
		if !attendance.EventType(e.Type).IsValid() {
			errs.Add("attendance", "attendance type must be one of: check-in, check-out")
			break
		}
	}
	for _, l := range r.Leaves {
		if !leave.LeaveRequestStatus(l.Status).IsValid() {
			errs.Add("leaves", "leave status must be one of: pending, approved, rejected")
			break
		}
	}
	for _, t := range r.Tasks {
		if !task.TaskStatus(t.Status).IsValid() {
			errs.Add("tasks", "task status must be one of: pending, completed")
			break
		}
	}

	if r.Sort != nil {
		r.Sort.Order = strings.ToLower(r.Sort.Order)
		if r.Sort.Order == "" {
			r.Sort.Order = "desc"
		}
		if r.Sort.Order != "asc" && r.Sort.Order != "desc" {
			errs.Add("sort.order", "order must be one of: asc, desc")
		}
		if r.Sort.Page < 1 {
			r.Sort.Page = 1
		}
	}

	return errs.OrNil()
}
