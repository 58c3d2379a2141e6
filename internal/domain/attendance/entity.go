package attendance

import (
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
)

type EventType string

const (
	EventCheckIn  EventType = "check-in"
	EventCheckOut EventType = "check-out"
)

func (t EventType) IsValid() bool {
	return t == EventCheckIn || t == EventCheckOut
}

// AttendanceEvent is a single check-in or check-out. Events are append-only:
// the timestamp is assigned by the server at creation and never changed.
type AttendanceEvent struct {
	ID        string
	UserID    string
	Type      EventType
	Timestamp timestamp.Raw
}
