package core

import (
	"sort"
	"time"

	"github.com/huangsam/caudal/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// dateKey returns the calendar date of t in its own location.
// Keys compare correctly as strings.
func dateKey(t time.Time) string {
	return t.Format(schema.DateLayout)
}

// SeriesBounds returns the first and last timestamps of a sorted series.
func SeriesBounds(series schema.Series) (first, last time.Time, ok bool) {
	if len(series) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return series[0].Timestamp, series[len(series)-1].Timestamp, true
}

// FilterPeriod keeps readings whose calendar date lies within [start, end], inclusive.
// Only the dates of start and end matter.
func FilterPeriod(series schema.Series, start, end time.Time) schema.Series {
	from, to := dateKey(start), dateKey(end)
	out := make(schema.Series, 0, len(series))
	for _, r := range series {
		d := dateKey(r.Timestamp)
		if d >= from && d <= to {
			out = append(out, r)
		}
	}
	return out
}

// Segment splits a sorted series into cycles. A new cycle starts whenever the
// gap to the previous reading is strictly greater than schema.GapThreshold.
func Segment(series schema.Series) []schema.Series {
	if len(series) == 0 {
		return nil
	}
	var cycles []schema.Series
	begin := 0
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp.Sub(series[i-1].Timestamp) > schema.GapThreshold {
			cycles = append(cycles, series[begin:i:i])
			begin = i
		}
	}
	return append(cycles, series[begin:])
}

// IntegrateCycle computes the record of one cycle from its producing samples.
// Each producing sample contributes flow × minutes since the previous producing
// sample of the same cycle; the first one contributes nothing.
// It returns false when the cycle has no producing sample.
func IntegrateCycle(id int, cycle schema.Series) (schema.CycleRecord, bool) {
	producing := make(schema.Series, 0, len(cycle))
	for _, r := range cycle {
		if r.FlowRate >= schema.ProductionThreshold {
			producing = append(producing, r)
		}
	}
	if len(producing) == 0 {
		return schema.CycleRecord{}, false
	}

	contributions := make([]float64, len(producing))
	flows := make([]float64, len(producing))
	flows[0] = producing[0].FlowRate
	for i := 1; i < len(producing); i++ {
		dt := producing[i].Timestamp.Sub(producing[i-1].Timestamp).Minutes()
		contributions[i] = producing[i].FlowRate * dt
		flows[i] = producing[i].FlowRate
	}

	first, last := producing[0].Timestamp, producing[len(producing)-1].Timestamp
	return schema.CycleRecord{
		CycleID:          id,
		StartDate:        dateKey(first),
		StartTime:        first,
		EndTime:          last,
		Volume:           floats.Sum(contributions),
		ProducingSamples: len(producing),
		Duration:         last.Sub(first),
		MeanFlowRate:     stat.Mean(flows, nil),
	}, true
}

// Analyze runs the cycle analysis of a normalized series over a date range.
// An empty range or a range without producing cycles is reported through the
// outcome, not as an error.
func Analyze(series schema.Series, start, end time.Time) (schema.AnalysisResult, error) {
	if dateKey(start) > dateKey(end) {
		return schema.AnalysisResult{}, &schema.InvalidRangeError{Start: start, End: end}
	}

	// --- 1. Period filter ---
	filtered := FilterPeriod(series, start, end)
	if len(filtered) == 0 {
		return emptyResult(schema.OutcomeEmptyRange), nil
	}

	// --- 2. Segmentation and integration ---
	var records []schema.CycleRecord
	for id, cycle := range Segment(filtered) {
		if rec, ok := IntegrateCycle(id, cycle); ok {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return emptyResult(schema.OutcomeNoCycles), nil
	}

	// --- 3. Aggregation ---
	volumes := make([]float64, len(records))
	for i, rec := range records {
		volumes[i] = rec.Volume
	}
	total := floats.Sum(volumes)

	return schema.AnalysisResult{
		Outcome: schema.OutcomeOK,
		Report: &schema.PeriodReport{
			Start:       dateKey(start),
			End:         dateKey(end),
			Records:     records,
			TotalVolume: total,
		},
		TotalVolume: total,
		Daily:       DailyTotals(records),
	}, nil
}

// DailyTotals groups cycle volumes by start date, ascending.
func DailyTotals(records []schema.CycleRecord) []schema.DailyTotal {
	index := make(map[string]int)
	var days []schema.DailyTotal
	for _, rec := range records {
		i, ok := index[rec.StartDate]
		if !ok {
			i = len(days)
			index[rec.StartDate] = i
			days = append(days, schema.DailyTotal{Date: rec.StartDate})
		}
		days[i].Volume += rec.Volume
		days[i].Cycles++
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func emptyResult(o schema.Outcome) schema.AnalysisResult {
	return schema.AnalysisResult{Outcome: o, Message: schema.OutcomeMessage(o)}
}
