package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/caudal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainOutcome(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.Outcome
		expected string
	}{
		{"ok", schema.OutcomeOK, "OK"},
		{"empty range", schema.OutcomeEmptyRange, "Empty range"},
		{"no cycles", schema.OutcomeNoCycles, "No cycles"},
		{"unknown passes through", schema.Outcome("other"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainOutcome(tt.input))
		})
	}
}

func TestGetColorOutcome(t *testing.T) {
	for _, o := range []schema.Outcome{schema.OutcomeOK, schema.OutcomeEmptyRange, schema.OutcomeNoCycles} {
		t.Run(string(o), func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorOutcome(o), GetPlainOutcome(o))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetCacheDBFilePath(t *testing.T) {
	path := GetCacheDBFilePath()

	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".caudal_cache.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{"fits", "data/march.csv", 20, "data/march.csv"},
		{"truncated", "/very/long/path/to/readings.csv", 15, "...readings.csv"},
		{"tiny width untouched", "readings.csv", 3, "readings.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncatePath(tt.path, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"No", false, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
