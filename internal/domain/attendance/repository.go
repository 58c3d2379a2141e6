package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance events.
type AttendanceRepository interface {
	// Create appends a new event; the store assigns the timestamp
	Create(ctx context.Context, event AttendanceEvent) (AttendanceEvent, error)

	// ListAll returns every event in the store, unordered
	ListAll(ctx context.Context) ([]AttendanceEvent, error)

	// ListByUser returns the events of one user, unordered
	ListByUser(ctx context.Context, userID string) ([]AttendanceEvent, error)
}
