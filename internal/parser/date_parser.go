package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmyDateRegex   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	monthRegex     = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	relativeRegex  = regexp.MustCompile(`^(\d+)\s*(h|hour|hours|d|day|days|w|week|weeks)(\s+ago)?$`)
	daysCountRegex = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks|m|month|months)?$`)
)

// ParseDate parses a point in time for history filters.
// Supported formats:
// - yyyy-mm-dd (e.g., "2024-01-15")
// - dd/mm/yyyy (e.g., "15/01/2024")
// - today, yesterday
// - X hours/days/weeks [ago] (e.g., "3 days", "2w ago"), counted back from now
//
// Calendar dates resolve to the start of that day in loc.
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch input {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if matches := isoDateRegex.FindStringSubmatch(input); matches != nil {
		return buildDate(matches[1], matches[2], matches[3], loc)
	}
	if matches := dmyDateRegex.FindStringSubmatch(input); matches != nil {
		return buildDate(matches[3], matches[2], matches[1], loc)
	}
	if matches := relativeRegex.FindStringSubmatch(input); matches != nil {
		amount, err := strconv.Atoi(matches[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number")
		}
		switch matches[2] {
		case "h", "hour", "hours":
			return now.Add(-time.Duration(amount) * time.Hour), nil
		case "d", "day", "days":
			return today.AddDate(0, 0, -amount), nil
		default:
			return today.AddDate(0, 0, -7*amount), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, dd/mm/yyyy, today, yesterday, or X days/weeks/hours ago", input)
}

// EndOfDay returns the last millisecond of t's calendar day
func EndOfDay(t time.Time) time.Time {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.AddDate(0, 0, 1).Add(-time.Millisecond)
}

func buildDate(yearStr, monthStr, dayStr string, loc *time.Location) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return date, nil
}

// ParseMonth parses "yyyy-mm"
func ParseMonth(input string) (year, month int, err error) {
	matches := monthRegex.FindStringSubmatch(strings.TrimSpace(input))
	if matches == nil {
		return 0, 0, fmt.Errorf("invalid month %q. Use: yyyy-mm", input)
	}
	year, _ = strconv.Atoi(matches[1])
	month, _ = strconv.Atoi(matches[2])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	return year, month, nil
}

// ParseDays parses a retention or lookback period into whole days.
// Supported formats: "30", "30d", "30 days", "2w", "2 weeks", "3m", "3 months".
// A month counts as 30 days.
func ParseDays(input string) (int, error) {
	matches := daysCountRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(input)))
	if matches == nil {
		return 0, fmt.Errorf("invalid period %q. Use: N, N days, N weeks or N months", input)
	}
	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "w", "week", "weeks":
		amount *= 7
	case "m", "month", "months":
		amount *= 30
	}
	if amount > 36500 {
		return 0, fmt.Errorf("period must be at most 100 years")
	}
	return amount, nil
}
