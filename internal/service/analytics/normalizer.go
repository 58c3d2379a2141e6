package analytics

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
)

// textLayouts are tried in order for string timestamps. Layouts without a
// zone are read as UTC.
var textLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Normalize converts a stored timestamp into an instant. It reports false for
// missing or unreadable values. Epoch zero and negative epochs are valid.
func Normalize(raw timestamp.Raw) (time.Time, bool) {
	switch {
	case raw.Time != nil:
		return *raw.Time, true
	case raw.Seconds != nil:
		return time.Unix(*raw.Seconds, raw.Nanos), true
	case raw.Text != nil:
		s := strings.TrimSpace(*raw.Text)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range textLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
