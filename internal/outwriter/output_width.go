package outwriter

import (
	"os"

	"github.com/huangsam/caudal/internal/contract"
	"golang.org/x/term"
)

// Bar width bounds of the daily view.
const (
	minBarWidth = 10
	maxBarWidth = 60
)

// getTerminalWidth returns the width override, the detected terminal width, or 80.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxBarWidth calculates the width of the volume bars in the daily table
// based on terminal width and the fixed columns.
func GetMaxBarWidth(cfg *contract.Config) int {
	// Date + Cycles + Volume with borders/padding
	baseWidth := 45

	available := getTerminalWidth(cfg) - baseWidth
	if available < minBarWidth {
		return minBarWidth
	}
	if available > maxBarWidth {
		return maxBarWidth
	}
	return available
}
