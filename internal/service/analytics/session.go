package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
)

type normalizedEvent struct {
	id   string
	typ  attendance.EventType
	at   time.Time
	date string
}

// Reconstruct pairs userID's check-ins and check-outs whose calendar date (in
// loc) falls inside rng. Events are ordered by instant, ties by ID.
//
// A check-in while a session is open supersedes the open one. A check-out
// with nothing open is ignored. Both are reported as anomalies and never
// contribute to duration. A session still open at the end is returned with a
// nil CheckOutAt and zero duration.
func Reconstruct(userID string, events []attendance.AttendanceEvent, rng analytics.DateRange, loc *time.Location) analytics.SessionResult {
	result := analytics.SessionResult{
		UserID:       userID,
		Sessions:     []analytics.WorkSession{},
		PresentDates: []string{},
		Anomalies:    []analytics.Anomaly{},
	}

	inRange := make([]normalizedEvent, 0, len(events))
	for _, e := range events {
		if e.UserID != userID {
			continue
		}
		at, ok := Normalize(e.Timestamp)
		if !ok {
			result.Malformed++
			continue
		}
		date := analytics.CalendarDate(at, loc)
		if !rng.Contains(date) {
			continue
		}
		inRange = append(inRange, normalizedEvent{id: e.ID, typ: e.Type, at: at, date: date})
	}

	slices.SortStableFunc(inRange, func(a, b normalizedEvent) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	present := make(map[string]struct{})
	var open *normalizedEvent
	for i := range inRange {
		e := &inRange[i]
		switch e.typ {
		case attendance.EventCheckIn:
			present[e.date] = struct{}{}
			if open != nil {
				result.Anomalies = append(result.Anomalies, analytics.Anomaly{
					Kind:    analytics.AnomalySupersededCheckIn,
					UserID:  userID,
					EventID: open.id,
					At:      open.at,
				})
			}
			open = e
		case attendance.EventCheckOut:
			if open == nil {
				result.Anomalies = append(result.Anomalies, analytics.Anomaly{
					Kind:    analytics.AnomalyStrayCheckOut,
					UserID:  userID,
					EventID: e.id,
					At:      e.at,
				})
				continue
			}
			checkOut := e.at
			duration := checkOut.Sub(open.at).Milliseconds()
			result.Sessions = append(result.Sessions, analytics.WorkSession{
				UserID:     userID,
				CheckInAt:  open.at,
				CheckOutAt: &checkOut,
				DurationMs: duration,
			})
			result.TotalDurationMs += duration
			open = nil
		}
	}
	if open != nil {
		result.Sessions = append(result.Sessions, analytics.WorkSession{
			UserID:    userID,
			CheckInAt: open.at,
		})
	}

	for date := range present {
		result.PresentDates = append(result.PresentDates, date)
	}
	slices.Sort(result.PresentDates)
	result.DaysPresent = len(result.PresentDates)

	return result
}
