package analytics

import (
	"strings"
	"time"
)

// Display labels for a date range.
const (
	RangeAllTime = "All time"
	RangeDay     = "Day"
	RangeWeek    = "Week"
	RangeMonth   = "Month"
	RangeCustom  = "Custom"
)

// Sentinels shown when an aggregate has no value.
const (
	NoDataLabel           = "No data"
	InsufficientDataLabel = "Insufficient data"
)

// InputDateLayout is the format of range bounds coming from forms and flags.
const InputDateLayout = "2006-01-02"

// TimeRangeLabel classifies the span between two YYYY-MM-DD bounds.
// No bounds at all mean "all time". A single bound or one that does not
// parse is "custom".
func TimeRangeLabel(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return RangeAllTime
	}
	if start == "" || end == "" {
		return RangeCustom
	}

	s, err := time.Parse(InputDateLayout, start)
	if err != nil {
		return RangeCustom
	}
	e, err := time.Parse(InputDateLayout, end)
	if err != nil {
		return RangeCustom
	}

	span := e.Sub(s)
	if span < 0 {
		span = -span
	}
	switch {
	case span == 0:
		return RangeDay
	case span <= 7*24*time.Hour:
		return RangeWeek
	default:
		return RangeMonth
	}
}
