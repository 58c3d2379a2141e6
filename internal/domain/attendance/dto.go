package attendance

import (
	"strings"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type RecordAttendanceRequest struct {
	Type string `json:"type"` // check-in, check-out
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if validator.IsEmpty(r.Type) {
		errs.Add("type", "type is required")
	} else if !EventType(r.Type).IsValid() {
		errs.Add("type", "type must be one of: check-in, check-out")
	}

	return errs.OrNil()
}

type AttendanceEventResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	Timestamp *string `json:"timestamp"` // RFC3339, null when the stored value is unreadable
	Date      *string `json:"date"`      // YYYY-MM-DD in the analytics timezone
}

type TodayAttendanceResponse struct {
	Date        string                    `json:"date"`
	IsCheckedIn bool                      `json:"is_checked_in"`
	NextAction  string                    `json:"next_action"`
	Records     []AttendanceEventResponse `json:"records"`
}
