// Package core has core logic for normalizing flow readings and analyzing production cycles.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/internal/outwriter"
	"github.com/huangsam/caudal/schema"
)

// ExecuteCycles runs the cycle report and writes it in the configured output format.
// It serves as the main entry point for the 'cycles' command.
func ExecuteCycles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetCycleResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCycles(result, cfg, time.Since(start))
}

// ExecuteDaily runs the cycle report and writes the per-day totals.
// It serves as the main entry point for the 'daily' command.
func ExecuteDaily(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetCycleResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDaily(result, cfg, time.Since(start))
}

// GetCycleResults loads the configured input file and analyzes its date range.
// Unset range bounds default to the first and last dates present in the data.
func GetCycleResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.AnalysisResult, error) {
	// --- 1. Load and normalize (with caching) ---
	norm, err := cachedNormalize(ctx, cfg, mgr)
	if err != nil {
		return schema.AnalysisResult{}, err
	}
	if norm.DroppedRows > 0 {
		contract.LogWarn("Skipped unparseable rows", fmt.Errorf("%d of %d rows dropped", norm.DroppedRows, norm.TotalRows))
	}

	// --- 2. Range resolution ---
	start, end := resolveRange(cfg, norm.Series)
	if !shouldSuppressHeader(ctx) {
		contract.LogReportHeader(cfg, start, end)
	}

	// --- 3. Analysis ---
	return Analyze(norm.Series, start, end)
}

// resolveRange fills unset bounds from the series. A single explicit bound
// that lies outside the data collapses the range onto itself instead of inverting it.
func resolveRange(cfg *contract.Config, series schema.Series) (start, end time.Time) {
	start, end = cfg.StartDate, cfg.EndDate
	first, last, ok := SeriesBounds(series)
	if !ok {
		first, last = start, end
		if first.IsZero() {
			first = last
		}
		if last.IsZero() {
			last = first
		}
	}

	switch {
	case start.IsZero() && end.IsZero():
		return first, last
	case start.IsZero():
		start = first
		if dateKey(start) > dateKey(end) {
			start = end
		}
	case end.IsZero():
		end = last
		if dateKey(start) > dateKey(end) {
			end = start
		}
	}
	return start, end
}
