package analytics

import (
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

// DateRange is an inclusive range of calendar dates in YYYY-MM-DD form.
// Dates compare lexicographically, which matches chronological order for
// this layout.
type DateRange struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// NewDateRange validates both bounds and that start <= end.
func NewDateRange(start, end string) (DateRange, error) {
	var errs validator.ValidationErrors

	s, startOK := validator.IsValidDate(start)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	e, endOK := validator.IsValidDate(end)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && e.Before(s) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
	if err := errs.OrNil(); err != nil {
		return DateRange{}, err
	}

	return DateRange{Start: start, End: end}, nil
}

// DayRange covers the single calendar date of t.
func DayRange(t time.Time) DateRange {
	d := t.Format(validator.DateLayout)
	return DateRange{Start: d, End: d}
}

// MonthRange covers the calendar month containing t.
func MonthRange(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DateRange{Start: first.Format(validator.DateLayout), End: last.Format(validator.DateLayout)}
}

// YearRange covers the calendar year containing t.
func YearRange(t time.Time) DateRange {
	return DateRange{
		Start: time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Format(validator.DateLayout),
		End:   time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC).Format(validator.DateLayout),
	}
}

// MonthToDate covers the first of t's month through t.
func MonthToDate(t time.Time) DateRange {
	return DateRange{
		Start: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(validator.DateLayout),
		End:   t.Format(validator.DateLayout),
	}
}

func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// CalendarDate returns the YYYY-MM-DD date of t in loc. A nil loc means UTC.
func CalendarDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(validator.DateLayout)
}
