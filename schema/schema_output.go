package schema

import (
	"fmt"
	"time"
)

// outcomeMessages holds the user-facing message for each non-OK outcome.
var outcomeMessages = map[Outcome]string{
	OutcomeEmptyRange: "No readings in the selected date range",
	OutcomeNoCycles:   "No production cycles in the selected date range",
}

// OutcomeMessage returns the user-facing message of an outcome, or "" for OutcomeOK.
func OutcomeMessage(o Outcome) string {
	return outcomeMessages[o]
}

// FormatClock renders the clock part of a timestamp.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// FormatDuration renders a cycle duration as "1h05m" or "12m30s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
