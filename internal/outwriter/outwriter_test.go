package outwriter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() schema.AnalysisResult {
	day1 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	records := []schema.CycleRecord{
		{
			CycleID:          1,
			StartDate:        "2024-03-01",
			StartTime:        day1,
			EndTime:          day1.Add(3 * time.Minute),
			Volume:           7.5,
			ProducingSamples: 3,
			Duration:         3 * time.Minute,
			MeanFlowRate:     2.5,
		},
		{
			CycleID:          2,
			StartDate:        "2024-03-02",
			StartTime:        day2,
			EndTime:          day2.Add(2 * time.Minute),
			Volume:           2.5,
			ProducingSamples: 2,
			Duration:         2 * time.Minute,
			MeanFlowRate:     1.25,
		},
	}
	return schema.AnalysisResult{
		Outcome: schema.OutcomeOK,
		Report: &schema.PeriodReport{
			Start:       "2024-03-01",
			End:         "2024-03-02",
			Records:     records,
			TotalVolume: 10,
		},
		TotalVolume: 10,
		Daily: []schema.DailyTotal{
			{Date: "2024-03-01", Volume: 7.5, Cycles: 1},
			{Date: "2024-03-02", Volume: 2.5, Cycles: 1},
		},
	}
}

func noCyclesResult() schema.AnalysisResult {
	return schema.AnalysisResult{
		Outcome: schema.OutcomeNoCycles,
		Message: schema.OutcomeMessage(schema.OutcomeNoCycles),
	}
}

func emptyRangeResult() schema.AnalysisResult {
	return schema.AnalysisResult{
		Outcome: schema.OutcomeEmptyRange,
		Message: schema.OutcomeMessage(schema.OutcomeEmptyRange),
	}
}

// captureStderr returns what fn writes to os.Stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func testConfig(mode schema.OutputMode) *contract.Config {
	return &contract.Config{
		Precision:    2,
		Output:       mode,
		Width:        80,
		CacheBackend: schema.NoneBackend,
	}
}

func TestRenderCycleResultsText(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCycleResults(&buf, sampleResult(), testConfig(schema.TextOut), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "08:00:00")
	assert.Contains(t, out, "08:03:00")
	assert.Contains(t, out, "3m00s")
	assert.Contains(t, out, "7.50")
	assert.Contains(t, out, "Total volume: 10.00 L across 2 cycles (2024-03-01 → 2024-03-02)")
	assert.Contains(t, out, "Cache backend: none")
}

func TestRenderCycleResultsTextNoCycles(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCycleResults(&buf, noCyclesResult(), testConfig(schema.TextOut), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "No cycles: No production cycles in the selected date range\n", buf.String())
}

func TestRenderCycleResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCycleResults(&buf, sampleResult(), testConfig(schema.CSVOut), time.Second)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "cycle_id,start_date,start_time,end_time,duration_seconds,producing_samples,mean_flow_rate,volume", lines[0])
	assert.Equal(t, "1,2024-03-01,2024-03-01T08:00:00Z,2024-03-01T08:03:00Z,180,3,2.50,7.50", lines[1])
}

func TestRenderCycleResultsCSVNoCycles(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCycleResults(&buf, noCyclesResult(), testConfig(schema.CSVOut), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestRenderCycleResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCycleResults(&buf, sampleResult(), testConfig(schema.JSONOut), time.Second)
	require.NoError(t, err)

	var decoded schema.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, schema.OutcomeOK, decoded.Outcome)
	require.NotNil(t, decoded.Report)
	assert.Len(t, decoded.Report.Records, 2)
	assert.InDelta(t, 10.0, decoded.TotalVolume, 1e-9)
}

func TestRenderDailyResultsText(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDailyResults(&buf, sampleResult(), testConfig(schema.TextOut), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2024-03-02")
	assert.Contains(t, out, strings.Repeat("█", GetMaxBarWidth(testConfig(schema.TextOut))))
	assert.Contains(t, out, "Total volume: 10.00 L over 2 days")
}

func TestRenderDailyResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDailyResults(&buf, sampleResult(), testConfig(schema.CSVOut), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "date,cycles,volume\n2024-03-01,1,7.50\n2024-03-02,1,2.50\n", buf.String())
}

func TestRenderDailyResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDailyResults(&buf, sampleResult(), testConfig(schema.JSONOut), time.Second)
	require.NoError(t, err)

	var decoded schema.DailyReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, schema.OutcomeOK, decoded.Outcome)
	assert.InDelta(t, 10.0, decoded.TotalVolume, 1e-9)
	assert.Len(t, decoded.Daily, 2)
}

func TestRenderDailyResultsJSONOutcomes(t *testing.T) {
	for _, result := range []schema.AnalysisResult{emptyRangeResult(), noCyclesResult()} {
		t.Run(string(result.Outcome), func(t *testing.T) {
			var buf bytes.Buffer
			err := RenderDailyResults(&buf, result, testConfig(schema.JSONOut), time.Second)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), `"daily": []`)

			var decoded schema.DailyReport
			require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
			assert.Equal(t, result.Outcome, decoded.Outcome)
			assert.Equal(t, result.Message, decoded.Message)
		})
	}
}

func TestRenderCSVOutcomesLogged(t *testing.T) {
	tests := []struct {
		name   string
		result schema.AnalysisResult
		label  string
		render func(io.Writer, schema.AnalysisResult, *contract.Config, time.Duration) error
		header string
	}{
		{"cycles empty range", emptyRangeResult(), "Empty range", RenderCycleResults, "cycle_id,"},
		{"cycles no cycles", noCyclesResult(), "No cycles", RenderCycleResults, "cycle_id,"},
		{"daily empty range", emptyRangeResult(), "Empty range", RenderDailyResults, "date,cycles,volume\n"},
		{"daily no cycles", noCyclesResult(), "No cycles", RenderDailyResults, "date,cycles,volume\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			stderr := captureStderr(t, func() {
				require.NoError(t, tt.render(&buf, tt.result, testConfig(schema.CSVOut), time.Second))
			})
			assert.True(t, strings.HasPrefix(buf.String(), tt.header))
			assert.Equal(t, tt.label+": "+tt.result.Message+"\n", stderr)
		})
	}

	t.Run("ok is silent", func(t *testing.T) {
		var buf bytes.Buffer
		stderr := captureStderr(t, func() {
			require.NoError(t, RenderDailyResults(&buf, sampleResult(), testConfig(schema.CSVOut), time.Second))
		})
		assert.Empty(t, stderr)
	})
}

func TestVolumeBar(t *testing.T) {
	tests := []struct {
		name     string
		volume   float64
		max      float64
		width    int
		expected int
	}{
		{"busiest day fills the bar", 10, 10, 20, 20},
		{"half volume", 5, 10, 20, 10},
		{"tiny volume still shows", 0.01, 10, 20, 1},
		{"zero volume", 0, 10, 20, 0},
		{"negative volume clamps", -3, 10, 20, 0},
		{"no production", 0, 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := volumeBar(tt.volume, tt.max, tt.width)
			assert.Equal(t, tt.expected, strings.Count(bar, "█"))
		})
	}
}

func TestWriteCycleResultsToFile(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "cycles.csv")

	require.NoError(t, NewOutWriter().WriteCycles(sampleResult(), cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "cycle_id,"))
}

func TestWriteParquetResults(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(dir, "cycles.parquet")
	require.NoError(t, WriteCycleResults(sampleResult(), cfg, time.Second))
	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	cfg.OutputFile = filepath.Join(dir, "daily.parquet")
	require.NoError(t, NewOutWriter().WriteDaily(noCyclesResult(), cfg, time.Second))
	_, err = os.Stat(cfg.OutputFile)
	require.NoError(t, err)
}

func TestWriteParquetInvalidPath(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "missing", "cycles.parquet")
	err := WriteCycleResults(sampleResult(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parquet")
}
