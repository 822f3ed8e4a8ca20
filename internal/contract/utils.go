package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/caudal/schema"
)

// Color variables for console output.
var (
	OKColor      = color.New(color.FgGreen, color.Bold) // OKColor marks a report with cycles.
	EmptyColor   = color.New(color.FgYellow)            // EmptyColor marks a range without readings.
	IdleColor    = color.New(color.FgMagenta)           // IdleColor marks a range without production.
	WarnColor    = color.New(color.FgYellow, color.Bold)
	HeadingColor = color.New(color.FgCyan, color.Bold)
)

// GetPlainOutcome returns the plain text label of an outcome. This is the
// form used for CSV, JSON, and non-colored table printing.
func GetPlainOutcome(o schema.Outcome) string {
	switch o {
	case schema.OutcomeOK:
		return "OK"
	case schema.OutcomeEmptyRange:
		return "Empty range"
	case schema.OutcomeNoCycles:
		return "No cycles"
	default:
		return string(o)
	}
}

// GetColorOutcome returns a colored outcome label for console output.
func GetColorOutcome(o schema.Outcome) string {
	text := GetPlainOutcome(o)

	switch o {
	case schema.OutcomeOK:
		return OKColor.Sprint(text)
	case schema.OutcomeEmptyRange:
		return EmptyColor.Sprint(text)
	default:
		return IdleColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".caudal_cache.db"
	}
	return filepath.Join(homeDir, ".caudal_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for "..." and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
