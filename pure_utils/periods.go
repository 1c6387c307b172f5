package pure_utils

import (
	"fmt"
	"time"
)

// Period key formats shared by the aggregation engine (bucket keys) and the
// update tracker (affected periods): "2006-01-02", "2024-W05", "2024-01",
// "2024-Q1", "2024".

func DailyKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// WeeklyKey uses the ISO-8601 week: weeks span Monday to Sunday, and a date's
// week can belong to a different ISO year than its calendar year at year
// boundaries.
func WeeklyKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func MonthlyKey(t time.Time) string {
	return t.Format("2006-01")
}

func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func QuarterlyKey(t time.Time) string {
	return fmt.Sprintf("%d-Q%d", t.Year(), QuarterOf(t))
}

func YearlyKey(t time.Time) string {
	return fmt.Sprintf("%d", t.Year())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EnumerateDays lists every calendar date between from and to inclusive.
func EnumerateDays(from, to time.Time) []string {
	var days []string
	for d := truncateToDay(from); !d.After(truncateToDay(to)); d = d.AddDate(0, 0, 1) {
		days = append(days, DailyKey(d))
	}
	return days
}

// EnumerateWeeks lists every ISO week touched between from and to inclusive.
// It walks day by day: stepping a whole week at a time can skip the last
// partial week of the range.
func EnumerateWeeks(from, to time.Time) []string {
	var weeks []string
	for d := truncateToDay(from); !d.After(truncateToDay(to)); d = d.AddDate(0, 0, 1) {
		key := WeeklyKey(d)
		if len(weeks) == 0 || weeks[len(weeks)-1] != key {
			weeks = append(weeks, key)
		}
	}
	return weeks
}

// EnumerateMonths lists every calendar month between from and to inclusive.
func EnumerateMonths(from, to time.Time) []string {
	var months []string
	current := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(last) {
		months = append(months, MonthlyKey(current))
		current = current.AddDate(0, 1, 0)
	}
	return months
}

// EnumerateQuarters lists every quarter intersecting the inclusive range.
func EnumerateQuarters(from, to time.Time) []string {
	var quarters []string
	startYear, endYear := from.Year(), to.Year()
	for year := startYear; year <= endYear; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			if year == startYear && quarter < QuarterOf(from) {
				continue
			}
			if year == endYear && quarter > QuarterOf(to) {
				continue
			}
			quarters = append(quarters, fmt.Sprintf("%d-Q%d", year, quarter))
		}
	}
	return quarters
}

// EnumerateYears lists every year between from and to inclusive.
func EnumerateYears(from, to time.Time) []string {
	var years []string
	for year := from.Year(); year <= to.Year(); year++ {
		years = append(years, fmt.Sprintf("%d", year))
	}
	return years
}
