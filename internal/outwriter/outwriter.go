// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/internal/parquet"
	"github.com/huangsam/caudal/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCycles writes a cycle report using the configured output format.
func (ow *OutWriter) WriteCycles(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCycleResults(result, cfg, duration)
}

// WriteDaily writes the per-day totals of a report using the configured output format.
func (ow *OutWriter) WriteDaily(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteDailyResults(result, cfg, duration)
}

// WriteCycleResults writes a cycle report to cfg.OutputFile (stdout when empty)
// in the configured output format.
func WriteCycleResults(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		rows := parquet.ToCycleRows(cycleRecords(result))
		if err := parquet.WriteCyclesParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logParquetWritten(cfg, result, len(rows))
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return RenderCycleResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteDailyResults writes the per-day totals of a report to cfg.OutputFile
// (stdout when empty) in the configured output format.
func WriteDailyResults(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		rows := parquet.ToDailyRows(result.Daily)
		if err := parquet.WriteDailyParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logParquetWritten(cfg, result, len(rows))
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return RenderDailyResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// cycleRecords returns the records of a report, or nil for a non-OK outcome.
func cycleRecords(result schema.AnalysisResult) []schema.CycleRecord {
	if result.Report == nil {
		return nil
	}
	return result.Report.Records
}

func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	default:
		return "Wrote table"
	}
}

// logOutcome surfaces a non-OK outcome on stderr for formats that cannot carry
// it next to the rows.
func logOutcome(result schema.AnalysisResult) {
	if result.Outcome != schema.OutcomeOK {
		contract.LogInfo("%s: %s", contract.GetPlainOutcome(result.Outcome), result.Message)
	}
}

// logParquetWritten reports a Parquet export.
func logParquetWritten(cfg *contract.Config, result schema.AnalysisResult, rows int) {
	logOutcome(result)
	contract.LogInfo("💾 Wrote Parquet (%d rows) to %s", rows, cfg.OutputFile)
}
