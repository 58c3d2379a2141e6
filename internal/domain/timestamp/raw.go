package timestamp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Raw holds a stored timestamp in whichever form the store produced it.
// At most one of Time, Seconds or Text is expected to be set; a Raw with
// none of them set is a missing timestamp.
type Raw struct {
	// Time is set for values read from a timestamptz column.
	Time *time.Time
	// Seconds and Nanos are set for document-store values ({seconds, nanoseconds})
	// and bare epoch numbers.
	Seconds *int64
	Nanos   int64
	// Text is set for string values that still need parsing.
	Text *string
}

// FromTime wraps an instant.
func FromTime(t time.Time) Raw {
	return Raw{Time: &t}
}

// FromNullableTime wraps a nullable column value. A nil pointer yields a missing timestamp.
func FromNullableTime(t *time.Time) Raw {
	if t == nil {
		return Raw{}
	}
	v := *t
	return Raw{Time: &v}
}

// FromSeconds wraps epoch seconds.
func FromSeconds(seconds int64) Raw {
	return Raw{Seconds: &seconds}
}

// FromText wraps an unparsed string value.
func FromText(s string) Raw {
	return Raw{Text: &s}
}

// IsMissing reports whether no representation is present at all.
func (r Raw) IsMissing() bool {
	return r.Time == nil && r.Seconds == nil && r.Text == nil
}

type documentTimestamp struct {
	Seconds      *json.Number `json:"seconds"`
	Nanoseconds  *json.Number `json:"nanoseconds"`
	AdminSeconds *json.Number `json:"_seconds"`
	AdminNanos   *json.Number `json:"_nanoseconds"`
}

// UnmarshalJSON accepts null, an epoch-seconds number, a string, or a
// {"seconds":N,"nanoseconds":M} object. Shapes it cannot read decode to a
// missing timestamp instead of failing the whole document.
func (r *Raw) UnmarshalJSON(data []byte) error {
	*r = Raw{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode timestamp string: %w", err)
		}
		r.Text = &s
		return nil
	case '{':
		var doc documentTimestamp
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil
		}
		secs, nanos := doc.Seconds, doc.Nanoseconds
		if secs == nil {
			secs, nanos = doc.AdminSeconds, doc.AdminNanos
		}
		if secs == nil {
			return nil
		}
		s, n, ok := splitSeconds(*secs)
		if !ok {
			return nil
		}
		if nanos != nil {
			if v, err := nanos.Int64(); err == nil {
				n += v
			}
		}
		r.Seconds = &s
		r.Nanos = n
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return nil
		}
		s, n, ok := splitSeconds(num)
		if !ok {
			return nil
		}
		r.Seconds = &s
		r.Nanos = n
		return nil
	}
}

// MarshalJSON writes the stored form back out: RFC 3339 for instants and
// epoch seconds, the raw string for text, null when missing.
func (r Raw) MarshalJSON() ([]byte, error) {
	switch {
	case r.Time != nil:
		return json.Marshal(r.Time.UTC().Format(time.RFC3339Nano))
	case r.Seconds != nil:
		return json.Marshal(time.Unix(*r.Seconds, r.Nanos).UTC().Format(time.RFC3339Nano))
	case r.Text != nil:
		return json.Marshal(*r.Text)
	}
	return []byte("null"), nil
}

func splitSeconds(num json.Number) (int64, int64, bool) {
	if v, err := num.Int64(); err == nil {
		return v, 0, true
	}
	f, err := num.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, 0, false
	}
	whole := math.Floor(f)
	return int64(whole), int64(math.Round((f - whole) * 1e9)), true
}
