package leave

import (
	"context"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateStatus moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus) (LeaveRequest, error)

	ListAll(ctx context.Context) ([]LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
}
