package cmd

import (
	"github.com/huangsam/caudal/core"
	"github.com/huangsam/caudal/internal/contract"
	"github.com/spf13/cobra"
)

// dailyCmd reports produced volume per calendar day.
var dailyCmd = &cobra.Command{
	Use:   "daily <input-file>",
	Short: "Show produced volume per day.",
	Long: `Group production cycles by the date they started and report each day's volume.

A cycle that crosses midnight counts toward the day it started.

Examples:
  # Daily volume bars for the whole file
  caudal daily readings.csv

  # Daily totals for March as JSON
  caudal daily readings.csv --start 2024-03-01 --end 2024-03-31 --output json

  # Export to Parquet for analytics tools
  caudal daily readings.csv --output parquet --output-file daily.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDaily(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run daily analysis", err)
		}
	},
}
