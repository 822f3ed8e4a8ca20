// Package schema defines the data model shared by the caudal packages.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Reading is a single flow-rate sample.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	FlowRate  float64   `json:"flow_rate"` // liters per minute
}

// Series is an ordered sequence of readings, non-decreasing by timestamp.
type Series []Reading

// Table is a raw, format-agnostic table read from an input file.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NormalizeResult holds a clean series plus the row accounting of the normalization.
type NormalizeResult struct {
	Series      Series `json:"series"`
	TotalRows   int    `json:"total_rows"`
	DroppedRows int    `json:"dropped_rows"`
}

// CycleRecord summarizes one production cycle that had at least one producing sample.
type CycleRecord struct {
	CycleID          int           `json:"cycle_id"`
	StartDate        string        `json:"start_date"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Volume           float64       `json:"volume"`
	ProducingSamples int           `json:"producing_samples"`
	Duration         time.Duration `json:"duration"`
	MeanFlowRate     float64       `json:"mean_flow_rate"`
}

// PeriodReport is the full result for a date range that contains cycles.
type PeriodReport struct {
	Start       string        `json:"start"`
	End         string        `json:"end"`
	Records     []CycleRecord `json:"records"`
	TotalVolume float64       `json:"total_volume"`
}

// DailyTotal is the produced volume grouped by cycle start date.
type DailyTotal struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
	Cycles int     `json:"cycles"`
}

// AnalysisResult is the tagged result of analyzing a date range.
// Report is nil unless Outcome is OutcomeOK.
type AnalysisResult struct {
	Outcome     Outcome       `json:"outcome"`
	Message     string        `json:"message,omitempty"`
	Report      *PeriodReport `json:"report"`
	TotalVolume float64       `json:"total_volume"`
	Daily       []DailyTotal  `json:"daily,omitempty"`
}

// DailyReport is the daily view of an AnalysisResult. Daily is never nil so
// an empty view encodes as [] next to its outcome.
type DailyReport struct {
	Outcome     Outcome      `json:"outcome"`
	Message     string       `json:"message,omitempty"`
	TotalVolume float64      `json:"total_volume"`
	Daily       []DailyTotal `json:"daily"`
}

// NewDailyReport builds the daily view of result.
func NewDailyReport(result AnalysisResult) DailyReport {
	daily := result.Daily
	if daily == nil {
		daily = []DailyTotal{}
	}
	return DailyReport{
		Outcome:     result.Outcome,
		Message:     result.Message,
		TotalVolume: result.TotalVolume,
		Daily:       daily,
	}
}

// ErrUnreadableInput is returned when an input file cannot be parsed as a table.
var ErrUnreadableInput = errors.New("unable to read input file")

// SchemaError reports required columns missing from the input table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// InvalidRangeError reports a date range whose start is after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("start date %s is after end date %s", e.Start.Format(DateLayout), e.End.Format(DateLayout))
}
