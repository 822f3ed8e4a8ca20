package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderDailyResults writes the per-day totals of a report to w, dispatching on
// the configured text, CSV or JSON output.
func RenderDailyResults(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, schema.NewDailyReport(result)); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		logOutcome(result)
		if err := writeDailyCSV(w, result.Daily, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeDailyTable(w, result, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeDailyTable renders one row per day with a volume bar scaled to the busiest day.
func writeDailyTable(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if result.Outcome != schema.OutcomeOK {
		return writeOutcomeNotice(w, result, cfg)
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Date", "Cycles", "Volume (L)", "Production"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxVolume := 0.0
	for _, d := range result.Daily {
		maxVolume = math.Max(maxVolume, d.Volume)
	}
	barWidth := GetMaxBarWidth(cfg)

	var data [][]string
	for _, d := range result.Daily {
		data = append(data, []string{
			d.Date,
			fmt.Sprintf(intFmt, d.Cycles),
			fmtFloat(d.Volume),
			volumeBar(d.Volume, maxVolume, barWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Total volume: %s L over %d days\n", fmtFloat(result.TotalVolume), len(result.Daily)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// volumeBar scales volume against maxVolume into a bar of at most width cells.
// Non-positive volumes render as an empty bar.
func volumeBar(volume, maxVolume float64, width int) string {
	if volume <= 0 || maxVolume <= 0 || width <= 0 {
		return ""
	}
	n := int(math.Round(volume / maxVolume * float64(width)))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// writeDailyCSV writes one row per calendar day.
func writeDailyCSV(w io.Writer, daily []schema.DailyTotal, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, []string{"date", "cycles", "volume"}, func(cw *csv.Writer) error {
		for _, d := range daily {
			if err := cw.Write([]string{d.Date, fmt.Sprintf(intFmt, d.Cycles), fmtFloat(d.Volume)}); err != nil {
				return err
			}
		}
		return nil
	})
}
