// Package parquet provides data structures and functions for exporting caudal
// cycle reports to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/caudal/schema"
	"github.com/parquet-go/parquet-go"
)

// CycleRow represents one production cycle of a report.
type CycleRow struct {
	// CycleID is the 1-based position of the cycle in the report
	CycleID int32 `parquet:"cycle_id,snappy"`

	// StartDate is the calendar date of the first reading (YYYY-MM-DD)
	StartDate string `parquet:"start_date,snappy"`

	// StartTime is the timestamp of the first reading (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is the timestamp of the last reading
	EndTime time.Time `parquet:"end_time,snappy"`

	// Volume is the integrated volume in liters
	Volume float64 `parquet:"volume_liters,snappy"`

	// ProducingSamples is the number of readings at or above the production threshold
	ProducingSamples int32 `parquet:"producing_samples,snappy"`

	// DurationSeconds is the span between the first and last reading
	DurationSeconds int64 `parquet:"duration_seconds,snappy"`

	// MeanFlowRate is the mean flow of the producing samples in L/min (nullable)
	MeanFlowRate *float64 `parquet:"mean_flow_rate,optional,snappy"`
}

// DailyRow represents the volume produced on one calendar date.
type DailyRow struct {
	Date   string  `parquet:"date,snappy"`
	Volume float64 `parquet:"volume_liters,snappy"`
	Cycles int32   `parquet:"cycles,snappy"`
}

// ToCycleRows converts cycle records into Parquet rows.
func ToCycleRows(records []schema.CycleRecord) []CycleRow {
	rows := make([]CycleRow, len(records))
	for i, rec := range records {
		rows[i] = CycleRow{
			CycleID:          int32(rec.CycleID),
			StartDate:        rec.StartDate,
			StartTime:        rec.StartTime,
			EndTime:          rec.EndTime,
			Volume:           rec.Volume,
			ProducingSamples: int32(rec.ProducingSamples),
			DurationSeconds:  int64(rec.Duration / time.Second),
		}
		if rec.ProducingSamples > 0 {
			mean := rec.MeanFlowRate
			rows[i].MeanFlowRate = &mean
		}
	}
	return rows
}

// ToDailyRows converts daily totals into Parquet rows.
func ToDailyRows(days []schema.DailyTotal) []DailyRow {
	rows := make([]DailyRow, len(days))
	for i, d := range days {
		rows[i] = DailyRow{Date: d.Date, Volume: d.Volume, Cycles: int32(d.Cycles)}
	}
	return rows
}

// WriteCyclesParquet writes a slice of CycleRow structs to a Parquet file.
func WriteCyclesParquet(data []CycleRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDailyParquet writes a slice of DailyRow structs to a Parquet file.
func WriteDailyParquet(data []DailyRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes rows with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the footer, so its error matters.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// MockCycleRows generates sample CycleRow data for demonstration.
func MockCycleRows() []CycleRow {
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	mean1, mean2 := 2.5, 4.0

	return []CycleRow{
		{
			CycleID:          1,
			StartDate:        "2024-03-01",
			StartTime:        day.Add(8 * time.Hour),
			EndTime:          day.Add(8*time.Hour + 45*time.Minute),
			Volume:           110.0,
			ProducingSamples: 45,
			DurationSeconds:  45 * 60,
			MeanFlowRate:     &mean1,
		},
		{
			CycleID:          2,
			StartDate:        "2024-03-01",
			StartTime:        day.Add(14 * time.Hour),
			EndTime:          day.Add(14*time.Hour + 20*time.Minute),
			Volume:           76.0,
			ProducingSamples: 20,
			DurationSeconds:  20 * 60,
			MeanFlowRate:     &mean2,
		},
		{
			CycleID:          3,
			StartDate:        "2024-03-02",
			StartTime:        day.Add(32 * time.Hour),
			EndTime:          day.Add(32 * time.Hour),
			Volume:           0,
			ProducingSamples: 1,
			DurationSeconds:  0,
			MeanFlowRate:     nil, // Demonstrates the nullable column
		},
	}
}

// MockDailyRows generates sample DailyRow data for demonstration.
func MockDailyRows() []DailyRow {
	return []DailyRow{
		{Date: "2024-03-01", Volume: 186.0, Cycles: 2},
		{Date: "2024-03-02", Volume: 0, Cycles: 1},
	}
}
