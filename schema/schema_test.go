package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaErrorMessage(t *testing.T) {
	var err error = &SchemaError{Missing: []string{TimestampColumn, FlowRateColumn}}
	assert.Equal(t, "missing required column(s): fecha_hora, flowRate", err.Error())

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Len(t, schemaErr.Missing, 2)
}

func TestInvalidRangeErrorMessage(t *testing.T) {
	err := &InvalidRangeError{
		Start: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "start date 2024-03-05 is after end date 2024-03-01", err.Error())
}

func TestOutcomeMessage(t *testing.T) {
	assert.Empty(t, OutcomeMessage(OutcomeOK))
	assert.NotEmpty(t, OutcomeMessage(OutcomeEmptyRange))
	assert.NotEmpty(t, OutcomeMessage(OutcomeNoCycles))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"zero", 0, "0m00s"},
		{"seconds only", 45 * time.Second, "0m45s"},
		{"minutes and seconds", 12*time.Minute + 30*time.Second, "12m30s"},
		{"over an hour", time.Hour + 5*time.Minute + 40*time.Second, "1h05m"},
		{"rounds sub-second", 59*time.Second + 600*time.Millisecond, "1m00s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestValidModes(t *testing.T) {
	for _, m := range []OutputMode{TextOut, CSVOut, JSONOut, ParquetOut} {
		_, ok := ValidOutputModes[m]
		assert.True(t, ok, "output mode %s should be valid", m)
	}
	for _, b := range []DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend} {
		_, ok := ValidDatabaseBackends[b]
		assert.True(t, ok, "backend %s should be valid", b)
	}
}
