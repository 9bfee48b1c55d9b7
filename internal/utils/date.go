package utils

import (
	"strconv"
	"strings"
	"time"

	"hotelparadise/internal/types"
)

// Accepted layouts for date-time query parameters. Layouts without a zone are
// read in the caller's location.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ParseDateTime(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, types.NewValidationError("date is required")
	}

	if loc == nil {
		loc = time.UTC
	}

	if unix, err := strconv.ParseInt(input, 10, 64); err == nil && unix > 0 {
		return time.Unix(unix, 0).In(loc), nil
	}

	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, input, loc); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, types.NewValidationError("invalid date %q", input)
}

// ParseClock reads a time of day ("14:00" or "14:00:00") as an offset from
// midnight.
func ParseClock(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)

	for _, layout := range []string{"15:04:05", "15:04"} {
		parsed, err := time.Parse(layout, input)
		if err != nil {
			continue
		}
		return time.Duration(parsed.Hour())*time.Hour +
			time.Duration(parsed.Minute())*time.Minute +
			time.Duration(parsed.Second())*time.Second, nil
	}

	return 0, types.NewValidationError("invalid time of day %q, expected HH:MM", input)
}
