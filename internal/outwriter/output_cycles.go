package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderCycleResults writes a cycle report to w, dispatching on the configured
// text, CSV or JSON output. Parquet is file-only and handled by WriteCycleResults.
func RenderCycleResults(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		logOutcome(result)
		if err := writeCyclesCSV(w, result, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeCyclesTable(w, result, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeCyclesTable generates and writes the human-readable cycle table.
func writeCyclesTable(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if result.Outcome != schema.OutcomeOK {
		return writeOutcomeNotice(w, result, cfg)
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	// 1. Define Headers
	table.Header([]string{"Cycle", "Date", "Start", "End", "Duration", "Samples", "Mean L/min", "Volume (L)"})

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, r := range result.Report.Records {
		data = append(data, []string{
			strconv.Itoa(r.CycleID),
			r.StartDate,
			schema.FormatClock(r.StartTime),
			schema.FormatClock(r.EndTime),
			schema.FormatDuration(r.Duration),
			fmt.Sprintf(intFmt, r.ProducingSamples),
			fmtFloat(r.MeanFlowRate),
			fmtFloat(r.Volume),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Total volume: %s L across %d cycles (%s → %s)\n",
		fmtFloat(result.TotalVolume), len(result.Report.Records), result.Report.Start, result.Report.End); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCyclesCSV writes one row per cycle. A report without cycles yields the header only.
func writeCyclesCSV(w io.Writer, result schema.AnalysisResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"cycle_id",
		"start_date",
		"start_time",
		"end_time",
		"duration_seconds",
		"producing_samples",
		"mean_flow_rate",
		"volume",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range cycleRecords(result) {
			rec := []string{
				strconv.Itoa(r.CycleID),
				r.StartDate,
				r.StartTime.Format(contract.DateTimeFormat),
				r.EndTime.Format(contract.DateTimeFormat),
				fmt.Sprintf(intFmt, int64(r.Duration.Seconds())),
				fmt.Sprintf(intFmt, r.ProducingSamples),
				fmtFloat(r.MeanFlowRate),
				fmtFloat(r.Volume),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
