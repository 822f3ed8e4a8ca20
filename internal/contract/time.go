package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/caudal/schema"
)

var relativeTimeRegex = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseRelativeTime parses "N units ago" relative to now.
// Units are day, week, month and year, singular or plural, in any case.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	matches := relativeTimeRegex.FindStringSubmatch(s)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("expected 'N [days|weeks|months|years] ago'")
	}

	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, err
	}

	switch matches[2] {
	case "year":
		return now.AddDate(-n, 0, 0), nil
	case "month":
		return now.AddDate(0, -n, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*n), nil
	default:
		return now.AddDate(0, 0, -n), nil
	}
}

// ParseDate parses a calendar date flag. Accepted forms are YYYY-MM-DD,
// RFC3339, "today", "yesterday" and "N units ago". An empty string yields
// the zero time, which callers treat as unbounded.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return time.Time{}, nil
	case "today":
		return truncateToDate(now), nil
	case "yesterday":
		return truncateToDate(now.AddDate(0, 0, -1)), nil
	}

	if t, err := time.Parse(schema.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, RFC3339, today, yesterday or 'N [units] ago'")
	}
	return truncateToDate(t), nil
}

// truncateToDate returns midnight of t's calendar date in t's location.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
