package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/caudal/schema"
)

// maxHeaderNameWidth caps the file name shown in the report header.
const maxHeaderNameWidth = 60

// LogReportHeader prints the report header to stderr so stdout stays machine-readable.
func LogReportHeader(cfg *Config, start, end time.Time) {
	WriteReportHeader(os.Stderr, cfg, start, end)
}

// WriteReportHeader writes the input file and the resolved date range.
func WriteReportHeader(w io.Writer, cfg *Config, start, end time.Time) {
	name := TruncatePath(filepath.Base(cfg.InputFile), maxHeaderNameWidth)
	if cfg.Sheet != "" {
		name = fmt.Sprintf("%s [%s]", name, cfg.Sheet)
	}

	fileIcon, rangeIcon := "", ""
	if cfg.UseEmojis {
		fileIcon, rangeIcon = "🔎 ", "📅 "
	}

	fileLabel, rangeLabel := "File:", "Range:"
	if cfg.UseColors {
		fileLabel, rangeLabel = HeadingColor.Sprint(fileLabel), HeadingColor.Sprint(rangeLabel)
	}

	// Line 1: The input being analyzed
	_, _ = fmt.Fprintf(w, "%s%s %s\n", fileIcon, fileLabel, name)

	// Line 2: The actual date range being analyzed
	_, _ = fmt.Fprintf(w, "%s%s %s → %s\n", rangeIcon, rangeLabel, start.Format(schema.DateLayout), end.Format(schema.DateLayout))
}
