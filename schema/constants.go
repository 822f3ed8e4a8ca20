package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// Outcome represents how an analysis over a date range ended.
	Outcome string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All analysis outcomes.
const (
	OutcomeOK         Outcome = "ok"
	OutcomeEmptyRange Outcome = "empty_range" // no readings fall inside the range
	OutcomeNoCycles   Outcome = "no_cycles"   // readings exist but none are producing
)

// Canonical column names of the readings table.
const (
	TimestampColumn = "fecha_hora"
	FlowRateColumn  = "flowRate"
	FlowRateAlias   = "L/MIN"
)

// Segmentation and integration thresholds.
const (
	// GapThreshold splits two consecutive readings into separate cycles
	// when the time between them is strictly greater than this.
	GapThreshold = 10 * time.Minute

	// ProductionThreshold is the minimum flow rate (L/min) of a producing sample.
	ProductionThreshold = 1.0
)

// Layouts used when rendering dates and clock times.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
