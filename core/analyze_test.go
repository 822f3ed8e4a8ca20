package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/caudal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at builds a reading on 2024-03-01 at hh:mm:ss UTC.
func at(hh, mm, ss int, flow float64) schema.Reading {
	return schema.Reading{Timestamp: time.Date(2024, 3, 1, hh, mm, ss, 0, time.UTC), FlowRate: flow}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var march1 = day(2024, 3, 1)

func TestAnalyzeTwoCycles(t *testing.T) {
	series := schema.Series{
		at(8, 0, 0, 0.5),
		at(8, 1, 0, 2.0),
		at(8, 2, 0, 2.0),
		at(9, 0, 0, 2.0),
		at(9, 1, 0, 0.0),
	}

	result, err := Analyze(series, march1, march1)
	require.NoError(t, err)
	require.Equal(t, schema.OutcomeOK, result.Outcome)
	require.NotNil(t, result.Report)
	require.Len(t, result.Report.Records, 2)

	first := result.Report.Records[0]
	assert.Equal(t, 0, first.CycleID)
	assert.Equal(t, "2024-03-01", first.StartDate)
	assert.Equal(t, at(8, 1, 0, 0).Timestamp, first.StartTime, "non-producing 08:00 is not the start")
	assert.Equal(t, at(8, 2, 0, 0).Timestamp, first.EndTime)
	assert.InDelta(t, 2.0, first.Volume, 1e-9)
	assert.Equal(t, 2, first.ProducingSamples)
	assert.Equal(t, time.Minute, first.Duration)
	assert.InDelta(t, 2.0, first.MeanFlowRate, 1e-9)

	second := result.Report.Records[1]
	assert.Equal(t, 1, second.CycleID)
	assert.Equal(t, at(9, 0, 0, 0).Timestamp, second.StartTime)
	assert.Equal(t, second.StartTime, second.EndTime)
	assert.InDelta(t, 0.0, second.Volume, 1e-9)

	assert.InDelta(t, 2.0, result.TotalVolume, 1e-9)
	assert.InDelta(t, 2.0, result.Report.TotalVolume, 1e-9)
}

func TestAnalyzeEmptyRange(t *testing.T) {
	series := schema.Series{at(8, 0, 0, 2.0), at(8, 1, 0, 2.0)}

	result, err := Analyze(series, day(2024, 4, 1), day(2024, 4, 30))
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeEmptyRange, result.Outcome)
	assert.Nil(t, result.Report)
	assert.Zero(t, result.TotalVolume)
	assert.NotEmpty(t, result.Message)

	result, err = Analyze(nil, march1, march1)
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeEmptyRange, result.Outcome)
}

func TestAnalyzeIdleCycleIsExcluded(t *testing.T) {
	series := schema.Series{
		at(6, 0, 0, 0.2),
		at(6, 1, 0, 0.9),
		at(6, 2, 0, 0.0),
		at(8, 0, 0, 1.5),
		at(8, 2, 0, 1.5),
	}

	result, err := Analyze(series, march1, march1)
	require.NoError(t, err)
	require.Len(t, result.Report.Records, 1)
	assert.Equal(t, 1, result.Report.Records[0].CycleID, "ids follow segmentation, not emission")
	assert.InDelta(t, 3.0, result.TotalVolume, 1e-9)
}

func TestAnalyzeNoCycles(t *testing.T) {
	series := schema.Series{at(6, 0, 0, 0.2), at(6, 1, 0, 0.99), at(7, 0, 0, 0.5)}

	result, err := Analyze(series, march1, march1)
	require.NoError(t, err)
	assert.Equal(t, schema.OutcomeNoCycles, result.Outcome)
	assert.Nil(t, result.Report)
	assert.Zero(t, result.TotalVolume)
	assert.Empty(t, result.Daily)
}

func TestAnalyzeSingleProducingSample(t *testing.T) {
	series := schema.Series{at(10, 0, 0, 0.1), at(10, 1, 0, 4.0), at(10, 2, 0, 0.3)}

	result, err := Analyze(series, march1, march1)
	require.NoError(t, err)
	require.Len(t, result.Report.Records, 1)
	assert.Zero(t, result.Report.Records[0].Volume)
	assert.Equal(t, schema.OutcomeOK, result.Outcome)
}

func TestAnalyzeInvalidRange(t *testing.T) {
	_, err := Analyze(schema.Series{at(8, 0, 0, 2.0)}, day(2024, 3, 2), march1)
	var rangeErr *schema.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)

	// Same calendar date with a later clock time on start is still valid.
	_, err = Analyze(schema.Series{at(8, 0, 0, 2.0)}, march1.Add(20*time.Hour), march1)
	require.NoError(t, err)
}

func TestSegmentGapThresholdIsStrict(t *testing.T) {
	exact := schema.Series{at(8, 0, 0, 2.0), at(8, 10, 0, 2.0)}
	cycles := Segment(exact)
	assert.Len(t, cycles, 1, "a gap of exactly 10 minutes stays in the cycle")

	over := schema.Series{at(8, 0, 0, 2.0), at(8, 10, 1, 2.0)}
	cycles = Segment(over)
	assert.Len(t, cycles, 2, "a gap of 10 minutes and 1 second splits")

	assert.Nil(t, Segment(nil))
}

func TestSegmentPartitionsSeries(t *testing.T) {
	series := schema.Series{
		at(1, 0, 0, 1), at(1, 5, 0, 1),
		at(2, 0, 0, 1),
		at(3, 0, 0, 1), at(3, 9, 0, 1), at(3, 18, 0, 1),
	}
	cycles := Segment(series)
	require.Len(t, cycles, 3)
	assert.Len(t, cycles[0], 2)
	assert.Len(t, cycles[1], 1)
	assert.Len(t, cycles[2], 3)

	total := 0
	for _, c := range cycles {
		total += len(c)
	}
	assert.Equal(t, len(series), total)
}

func TestIntegrateCycleSkipsNonProducingAnchors(t *testing.T) {
	// 08:00 and 08:04 are producing; the idle samples in between do not
	// shorten the interval used for 08:04.
	cycle := schema.Series{at(8, 0, 0, 2.0), at(8, 2, 0, 0.0), at(8, 3, 0, 0.4), at(8, 4, 0, 3.0)}

	rec, ok := IntegrateCycle(7, cycle)
	require.True(t, ok)
	assert.Equal(t, 7, rec.CycleID)
	assert.InDelta(t, 12.0, rec.Volume, 1e-9)
	assert.Equal(t, 2, rec.ProducingSamples)
	assert.InDelta(t, 2.5, rec.MeanFlowRate, 1e-9)

	_, ok = IntegrateCycle(0, schema.Series{at(8, 0, 0, 0.99)})
	assert.False(t, ok)
}

func TestIntegrateCyclePositiveIncrements(t *testing.T) {
	cycle := schema.Series{at(8, 0, 0, 1.0), at(8, 0, 30, 1.0), at(8, 9, 59, 1.0)}
	rec, ok := IntegrateCycle(0, cycle)
	require.True(t, ok)
	assert.Greater(t, rec.Volume, 0.0)
	assert.InDelta(t, 0.5+(9*60+29)/60.0, rec.Volume, 1e-9)
}

func TestFilterPeriodInclusiveDates(t *testing.T) {
	series := schema.Series{
		{Timestamp: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), FlowRate: 1},
		{Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), FlowRate: 1},
		{Timestamp: time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC), FlowRate: 1},
		{Timestamp: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), FlowRate: 1},
	}

	// End has a clock time of midnight; readings later that day are still included.
	filtered := FilterPeriod(series, march1, day(2024, 3, 2))
	require.Len(t, filtered, 2)
	assert.Equal(t, series[1], filtered[0])
	assert.Equal(t, series[2], filtered[1])
}

func TestDailyTotalsSumLaw(t *testing.T) {
	var series schema.Series
	start := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	for d := range 3 {
		for c := range 2 {
			base := start.AddDate(0, 0, d).Add(time.Duration(c) * 6 * time.Hour)
			for i := range 20 {
				flow := 1.0 + float64((i*7+d*3+c)%5)*0.37
				series = append(series, schema.Reading{Timestamp: base.Add(time.Duration(i) * 45 * time.Second), FlowRate: flow})
			}
		}
	}

	result, err := Analyze(series, march1, day(2024, 3, 3))
	require.NoError(t, err)
	require.Len(t, result.Report.Records, 6)
	require.Len(t, result.Daily, 3)

	sum := 0.0
	for i, d := range result.Daily {
		assert.Equal(t, fmt.Sprintf("2024-03-0%d", i+1), d.Date)
		assert.Equal(t, 2, d.Cycles)
		sum += d.Volume
	}
	assert.InDelta(t, result.TotalVolume, sum, 1e-9)
}

func TestDailyTotalsOrdering(t *testing.T) {
	records := []schema.CycleRecord{
		{StartDate: "2024-03-02", Volume: 1},
		{StartDate: "2024-03-01", Volume: 2},
		{StartDate: "2024-03-02", Volume: 3},
	}
	days := DailyTotals(records)
	require.Len(t, days, 2)
	assert.Equal(t, schema.DailyTotal{Date: "2024-03-01", Volume: 2, Cycles: 1}, days[0])
	assert.Equal(t, schema.DailyTotal{Date: "2024-03-02", Volume: 4, Cycles: 2}, days[1])
	assert.Empty(t, DailyTotals(nil))
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	table := schema.Table{
		Columns: []string{"fecha_hora", "flowRate"},
		Rows: [][]string{
			{"2024-03-01 08:02:00", "2.0"},
			{"2024-03-01 08:00:00", "0.5"},
			{"2024-03-01 08:01:00", "2.0"},
			{"2024-03-01 09:00:00", "2.0"},
			{"2024-03-01 09:03:00", "1.2"},
		},
	}
	norm, err := Normalize(table)
	require.NoError(t, err)

	first, err := Analyze(norm.Series, march1, march1)
	require.NoError(t, err)
	second, err := Analyze(norm.Series, march1, march1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	renorm, err := Normalize(table)
	require.NoError(t, err)
	assert.Equal(t, norm, renorm)
}

func TestSeriesBounds(t *testing.T) {
	_, _, ok := SeriesBounds(nil)
	assert.False(t, ok)

	series := schema.Series{at(1, 0, 0, 1), at(5, 0, 0, 1)}
	first, last, ok := SeriesBounds(series)
	require.True(t, ok)
	assert.Equal(t, series[0].Timestamp, first)
	assert.Equal(t, series[1].Timestamp, last)
}
