package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/caudal/internal/tabular"
	"github.com/huangsam/caudal/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 3
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile string
	Sheet     string

	// StartDate and EndDate bound the report by calendar date.
	// A zero value means the first or last date present in the data.
	StartDate time.Time
	EndDate   time.Time

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Sheet          string `mapstructure:"sheet"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input.Start, input.End, time.Now()); err != nil {
		return err
	}
	return resolveInputFile(cfg, input)
}

// RevalidateRange re-parses the date range of an already validated Config.
// It is used when a range arrives outside of the flag parsing path.
func RevalidateRange(cfg *Config, start, end string) error {
	return processDateRange(cfg, start, end, time.Now())
}

// RevalidateInputFile resolves and checks an input path of an already validated Config.
func RevalidateInputFile(cfg *Config, path string) error {
	return resolveInputFile(cfg, &ConfigRawInput{InputFileStr: path})
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateBackend parses a backend name and checks its connection string.
func ValidateBackend(name, connStr string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(name))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	if err := ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", err
	}
	return backend, nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Sheet = strings.TrimSpace(input.Sheet)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	// --- 2. Backend Validation ---
	backend, err := ValidateBackend(input.CacheBackend, input.CacheDBConnect)
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect

	return nil
}

// processDateRange parses the start and end dates and checks their order.
func processDateRange(cfg *Config, start, end string, now time.Time) error {
	startDate, err := ParseDate(start, now)
	if err != nil {
		return fmt.Errorf("invalid start date '%s': %w", start, err)
	}
	endDate, err := ParseDate(end, now)
	if err != nil {
		return fmt.Errorf("invalid end date '%s': %w", end, err)
	}

	if !startDate.IsZero() && !endDate.IsZero() &&
		startDate.Format(schema.DateLayout) > endDate.Format(schema.DateLayout) {
		return &schema.InvalidRangeError{Start: startDate, End: endDate}
	}

	cfg.StartDate = startDate
	cfg.EndDate = endDate
	return nil
}

// resolveInputFile checks that the input file exists and has a supported format.
func resolveInputFile(cfg *Config, input *ConfigRawInput) error {
	if input.InputFileStr == "" {
		return fmt.Errorf("an input file is required")
	}
	absPath, err := filepath.Abs(input.InputFileStr)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory", input.InputFileStr)
	}
	if !tabular.IsSupported(absPath) {
		return fmt.Errorf("unsupported input file %s. must be .csv, .tsv, .txt, .xlsx or .xlsm", filepath.Base(absPath))
	}

	cfg.InputFile = absPath
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}
