package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/projector"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/pubsub"
	analyticsservice "github.com/cmlabs-hris/workforce-analytics-go/internal/service/analytics"
)

type LeaveRequestServiceImpl struct {
	leaveRequestRepo leave.LeaveRequestRepository
	publisher        pubsub.Publisher
	loc              *time.Location
}

func NewLeaveRequestService(leaveRequestRepo leave.LeaveRequestRepository, publisher pubsub.Publisher, loc *time.Location) leave.LeaveRequestService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveRequestServiceImpl{
		leaveRequestRepo: leaveRequestRepo,
		publisher:        publisher,
		loc:              loc,
	}
}

var leaveSchema = projector.Schema[leave.LeaveRequest]{
	Categories: map[string]func(leave.LeaveRequest) string{
		"status":      func(l leave.LeaveRequest) string { return string(l.Status) },
		"employee_id": func(l leave.LeaveRequest) string { return l.UserID },
	},
}

func createdAt(l leave.LeaveRequest) timestamp.Raw {
	return l.CreatedAt
}

// Submit implements leave.LeaveRequestService.
func (s *LeaveRequestServiceImpl) Submit(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := s.leaveRequestRepo.Create(ctx, leave.LeaveRequest{
		UserID:    userID,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    leave.LeaveRequestStatusPending,
	})
	if err != nil {
		slog.Error("Failed to submit leave request", "user_id", userID, "error", err)
		return leave.LeaveRequestResponse{}, err
	}

	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionLeaves, pubsub.ActionCreated, created.ID, userID))
	return analyticsservice.LeaveResponse(created, s.loc), nil
}

// ListMine implements leave.LeaveRequestService.
func (s *LeaveRequestServiceImpl) ListMine(ctx context.Context, userID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.leaveRequestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	analyticsservice.NewestFirst(requests, createdAt)

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, l := range requests {
		resp = append(resp, analyticsservice.LeaveResponse(l, s.loc))
	}
	return resp, nil
}

// List implements leave.LeaveRequestService.
func (s *LeaveRequestServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, err := s.leaveRequestRepo.ListAll(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	analyticsservice.NewestFirst(requests, createdAt)

	page := projector.Project(requests, leaveSchema, projector.Query{
		Filters: map[string]string{"status": filter.Status, "employee_id": filter.EmployeeID},
		Page:    filter.Page,
	})

	resp := leave.ListLeaveRequestResponse{
		TotalCount: page.TotalItems,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Showing:    page.Showing(),
		Requests:   make([]leave.LeaveRequestResponse, 0, len(page.Items)),
	}
	for _, l := range page.Items {
		resp.Requests = append(resp.Requests, analyticsservice.LeaveResponse(l, s.loc))
	}
	return resp, nil
}

// Approve implements leave.LeaveRequestService.
func (s *LeaveRequestServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, id, leave.LeaveRequestStatusApproved)
}

// Reject implements leave.LeaveRequestService.
func (s *LeaveRequestServiceImpl) Reject(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, id, leave.LeaveRequestStatusRejected)
}

// decide moves a pending request to status. A request can be decided once.
func (s *LeaveRequestServiceImpl) decide(ctx context.Context, id string, status leave.LeaveRequestStatus) (leave.LeaveRequestResponse, error) {
	request, err := s.leaveRequestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	// the repository re-checks the status, so a concurrent decision loses here
	updated, err := s.leaveRequestRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request decided", "id", id, "user_id", updated.UserID, "status", status)
	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionLeaves, pubsub.ActionUpdated, updated.ID, updated.UserID))
	return analyticsservice.LeaveResponse(updated, s.loc), nil
}
