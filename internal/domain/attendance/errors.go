package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceEventNotFound = errors.New("attendance event not found")
	ErrInvalidEventType        = errors.New("event type must be check-in or check-out")
)
