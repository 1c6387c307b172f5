package pure_utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var acceptedDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006/01/02",
	"02-01-2006",
}

// ParseDate parses a date cell using the accepted layouts, in order.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Newf("could not parse %q as a date", value)
}

// ParseFloat parses a numeric cell, tolerating surrounding whitespace and a
// comma decimal separator.
func ParseFloat(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if strings.Count(trimmed, ",") == 1 && !strings.Contains(trimmed, ".") {
		trimmed = strings.Replace(trimmed, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, errors.Newf("could not parse %q as a number", value)
	}
	return f, nil
}
