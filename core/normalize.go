package core

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/caudal/schema"
)

// offsetLayouts carry their own zone and are tried before the naive layouts.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05Z0700",
}

// timestampLayouts are tried in order for naive (zone-less) timestamps.
// Fractional seconds are accepted after any layout that has a seconds field.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	schema.DateLayout,
}

// ResolveColumns finds the timestamp and flow-rate columns in a header row.
// The flow column is flowRate, or L/MIN when flowRate is absent.
func ResolveColumns(columns []string) (tsIdx, flowIdx int, err error) {
	tsIdx, flowIdx, aliasIdx := -1, -1, -1
	for i, c := range columns {
		switch cleanHeader(c) {
		case schema.TimestampColumn:
			if tsIdx < 0 {
				tsIdx = i
			}
		case schema.FlowRateColumn:
			if flowIdx < 0 {
				flowIdx = i
			}
		case schema.FlowRateAlias:
			if aliasIdx < 0 {
				aliasIdx = i
			}
		}
	}
	if flowIdx < 0 {
		flowIdx = aliasIdx
	}

	var missing []string
	if tsIdx < 0 {
		missing = append(missing, schema.TimestampColumn)
	}
	if flowIdx < 0 {
		missing = append(missing, schema.FlowRateColumn)
	}
	if len(missing) > 0 {
		return -1, -1, &schema.SchemaError{Missing: missing}
	}
	return tsIdx, flowIdx, nil
}

// Normalize turns a raw table into a clean series sorted by timestamp.
// Rows with an unparseable or empty timestamp or flow rate are dropped and
// only counted. A missing required column is the only error.
func Normalize(table schema.Table) (schema.NormalizeResult, error) {
	tsIdx, flowIdx, err := ResolveColumns(table.Columns)
	if err != nil {
		return schema.NormalizeResult{}, err
	}

	series := make(schema.Series, 0, len(table.Rows))
	for _, row := range table.Rows {
		if tsIdx >= len(row) || flowIdx >= len(row) {
			continue
		}
		ts, ok := parseTimestamp(row[tsIdx])
		if !ok {
			continue
		}
		flow, ok := parseFlowRate(row[flowIdx])
		if !ok {
			continue
		}
		series = append(series, schema.Reading{Timestamp: ts, FlowRate: flow})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	return schema.NormalizeResult{
		Series:      series,
		TotalRows:   len(table.Rows),
		DroppedRows: len(table.Rows) - len(series),
	}, nil
}

// cleanHeader strips whitespace and a leading byte order mark from a column name.
func cleanHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "\ufeff"))
}

// parseTimestamp parses a timestamp cell. Values without a zone are read as UTC.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFlowRate parses a flow-rate cell. A lone decimal comma is accepted.
func parseFlowRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
