package leave

import (
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

// LeaveTypes are the leave categories an employee can request.
var LeaveTypes = []string{"Sick Leave", "Vacation", "Personal", "Remote Work"}

// LeaveRequest entity. StartDate and EndDate are calendar dates (YYYY-MM-DD),
// inclusive, with StartDate <= EndDate.
type LeaveRequest struct {
	ID        string
	UserID    string
	Type      string
	StartDate string
	EndDate   string
	Reason    *string
	Status    LeaveRequestStatus
	CreatedAt timestamp.Raw

	// Relationships (for responses)
	EmployeeName *string
}

func (l LeaveRequest) IsApproved() bool {
	return l.Status == LeaveRequestStatusApproved
}
