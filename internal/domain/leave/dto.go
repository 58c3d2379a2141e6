package leave

import (
	"strings"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequest struct {
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Type = strings.TrimSpace(r.Type)
	if validator.IsEmpty(r.Type) {
		errs.Add("type", "type is required")
	} else if !validator.IsInSlice(r.Type, LeaveTypes) {
		errs.Add("type", "type must be one of: "+strings.Join(LeaveTypes, ", "))
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	if r.Reason != nil {
		trimmed := strings.TrimSpace(*r.Reason)
		if trimmed == "" {
			r.Reason = nil
		} else {
			r.Reason = &trimmed
		}
	}

	return errs.OrNil()
}

type LeaveRequestResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName string  `json:"employee_name"`
	Type         string  `json:"type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Reason       *string `json:"reason"`
	Status       string  `json:"status"`
	CreatedAt    *string `json:"created_at"`
}

type LeaveFilter struct {
	Status     string `json:"status,omitempty"` // pending, approved, rejected, all
	EmployeeID string `json:"employee_id,omitempty"`
	Page       int    `json:"page"`
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && f.Status != "all" && !LeaveRequestStatus(f.Status).IsValid() {
		errs.Add("status", "status must be one of: pending, approved, rejected, all")
	}
	if f.Page < 1 {
		f.Page = 1
	}

	return errs.OrNil()
}

type ListLeaveRequestResponse struct {
	TotalCount int                    `json:"total_count"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
	Showing    string                 `json:"showing"`
	Requests   []LeaveRequestResponse `json:"requests"`
}
