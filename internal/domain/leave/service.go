package leave

import (
	"context"
)

type LeaveRequestService interface {
	// Submit creates a pending request for the user
	Submit(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error)

	// ListMine returns the user's requests, newest first
	ListMine(ctx context.Context, userID string) ([]LeaveRequestResponse, error)

	// List filters and paginates all requests (manager only)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveRequestResponse, error)

	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, id string) (LeaveRequestResponse, error)
}
