package analytics

import "errors"

var (
	ErrUnsupportedExportFormat = errors.New("export format must be csv or pdf")
	ErrUnsupportedPeriod       = errors.New("period must be daily, monthly or yearly")
)
