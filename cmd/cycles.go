package cmd

import (
	"github.com/huangsam/caudal/core"
	"github.com/huangsam/caudal/internal/contract"
	"github.com/spf13/cobra"
)

// cyclesCmd reports every production cycle in the selected date range.
var cyclesCmd = &cobra.Command{
	Use:   "cycles <input-file>",
	Short: "Show the production cycles and their volumes.",
	Long: `Split flow-rate readings into production cycles and report the volume of each.

A new cycle starts whenever two consecutive readings are more than 10 minutes apart.
Only readings at or above 1 L/min count as production. Each producing reading adds
flow × minutes since the previous producing reading of the same cycle.

The input is a CSV, TSV or Excel file with a fecha_hora column and a flowRate
(or L/MIN) column. Unparseable rows are skipped with a warning.

Examples:
  # Report every cycle in the file
  caudal cycles readings.csv

  # Report a single week
  caudal cycles readings.xlsx --start 2024-03-01 --end 2024-03-07

  # Report the last 30 days from a named worksheet
  caudal cycles plant.xlsx --sheet Caudal --start "30 days ago"

  # Export cycles to CSV for tracking
  caudal cycles readings.csv --output csv --output-file cycles.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCycles(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run cycle analysis", err)
		}
	},
}
