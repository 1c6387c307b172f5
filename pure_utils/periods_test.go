package pure_utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeeklyKey_ISOYearBoundary(t *testing.T) {
	// 2024-12-30 is a Monday belonging to ISO week 1 of 2025.
	assert.Equal(t, "2025-W01", WeeklyKey(date(2024, time.December, 30)))
	// 2021-01-01 is a Friday belonging to ISO week 53 of 2020.
	assert.Equal(t, "2020-W53", WeeklyKey(date(2021, time.January, 1)))
	assert.Equal(t, "2024-W05", WeeklyKey(date(2024, time.February, 1)))
}

func TestQuarterlyKey(t *testing.T) {
	assert.Equal(t, "2024-Q1", QuarterlyKey(date(2024, time.March, 31)))
	assert.Equal(t, "2024-Q2", QuarterlyKey(date(2024, time.April, 1)))
	assert.Equal(t, "2024-Q4", QuarterlyKey(date(2024, time.December, 25)))
}

func TestEnumerateDays(t *testing.T) {
	days := EnumerateDays(date(2024, time.January, 30), date(2024, time.February, 2))
	assert.Equal(t, []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}, days)
}

func TestEnumerateWeeks_CoversPartialLastWeek(t *testing.T) {
	// 2024-01-28 is a Sunday (week 4), 2024-02-03 a Saturday (week 5): both
	// weeks must appear even though the range is only 7 days long.
	weeks := EnumerateWeeks(date(2024, time.January, 28), date(2024, time.February, 3))
	assert.Equal(t, []string{"2024-W04", "2024-W05"}, weeks)
}

func TestEnumerateMonths(t *testing.T) {
	months := EnumerateMonths(date(2023, time.November, 15), date(2024, time.February, 1))
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, months)
}

func TestEnumerateQuarters(t *testing.T) {
	quarters := EnumerateQuarters(date(2023, time.August, 1), date(2024, time.May, 10))
	assert.Equal(t, []string{"2023-Q3", "2023-Q4", "2024-Q1", "2024-Q2"}, quarters)
}

func TestEnumerateYears(t *testing.T) {
	assert.Equal(t, []string{"2023", "2024"}, EnumerateYears(date(2023, time.June, 1), date(2024, time.June, 1)))
}
