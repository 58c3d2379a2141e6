package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Record appends a check-in or check-out for the user
	Record(ctx context.Context, userID string, req RecordAttendanceRequest) (AttendanceEventResponse, error)

	// Today returns the user's records for the current calendar date and whether a session is open
	Today(ctx context.Context, userID string) (TodayAttendanceResponse, error)

	// History returns all of the user's records, newest first
	History(ctx context.Context, userID string) ([]AttendanceEventResponse, error)
}
