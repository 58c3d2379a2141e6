package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/pubsub"
	analyticsservice "github.com/cmlabs-hris/workforce-analytics-go/internal/service/analytics"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	publisher      pubsub.Publisher
	loc            *time.Location
	now            func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now when deciding which calendar date is today.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	publisher pubsub.Publisher,
	loc *time.Location,
	opts ...Option,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	s := &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		publisher:      publisher,
		loc:            loc,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record implements attendance.AttendanceService. Events are appended as-is;
// pairing them into sessions is left to analytics.
func (s *AttendanceServiceImpl) Record(ctx context.Context, userID string, req attendance.RecordAttendanceRequest) (attendance.AttendanceEventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceEventResponse{}, err
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.AttendanceEvent{
		UserID: userID,
		Type:   attendance.EventType(req.Type),
	})
	if err != nil {
		slog.Error("Failed to record attendance", "user_id", userID, "type", req.Type, "error", err)
		return attendance.AttendanceEventResponse{}, err
	}

	pubsub.Notify(ctx, s.publisher, pubsub.NewChange(pubsub.CollectionAttendance, pubsub.ActionCreated, created.ID, userID))
	return analyticsservice.EventResponse(created, s.loc), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string) (attendance.TodayAttendanceResponse, error) {
	events, err := s.attendanceRepo.ListByUser(ctx, userID)
	if err != nil {
		return attendance.TodayAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	today := analytics.CalendarDate(s.now(), s.loc)
	return analyticsservice.TodayStatus(events, userID, today, s.loc), nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, userID string) ([]attendance.AttendanceEventResponse, error) {
	events, err := s.attendanceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	analyticsservice.NewestFirst(events, func(e attendance.AttendanceEvent) timestamp.Raw { return e.Timestamp })

	resp := make([]attendance.AttendanceEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, analyticsservice.EventResponse(e, s.loc))
	}
	return resp, nil
}
