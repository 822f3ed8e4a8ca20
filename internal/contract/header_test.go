package contract

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteReportHeader(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		WriteReportHeader(&buf, &Config{InputFile: "/data/readings.csv"}, start, end)
		assert.Equal(t, "File: readings.csv\nRange: 2024-03-01 → 2024-03-31\n", buf.String())
	})

	t.Run("sheet and emojis", func(t *testing.T) {
		var buf bytes.Buffer
		WriteReportHeader(&buf, &Config{InputFile: "/data/plant.xlsx", Sheet: "Marzo", UseEmojis: true}, start, end)
		assert.Contains(t, buf.String(), "🔎 File: plant.xlsx [Marzo]")
		assert.Contains(t, buf.String(), "📅 Range:")
	})

	t.Run("long name is truncated", func(t *testing.T) {
		var buf bytes.Buffer
		long := strings.Repeat("x", 100) + ".csv"
		WriteReportHeader(&buf, &Config{InputFile: "/data/" + long}, start, end)
		assert.Contains(t, buf.String(), "File: ...")
		assert.Contains(t, buf.String(), "x.csv\n")
		assert.NotContains(t, buf.String(), long)
	})

	t.Run("colors keep labels", func(t *testing.T) {
		var buf bytes.Buffer
		WriteReportHeader(&buf, &Config{InputFile: "/data/readings.csv", UseColors: true}, start, end)
		assert.Contains(t, buf.String(), "File:")
		assert.Contains(t, buf.String(), "readings.csv")
	})
}
