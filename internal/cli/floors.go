package cli

import (
	"github.com/kilupskalvis/apdiff/internal/report"
	"github.com/spf13/cobra"
)

var floorsCmd = &cobra.Command{
	Use:   "floors <old> <new>",
	Short: "Show change counts per floor",
	Long:  `Compare two survey versions and print a table of changes per floor.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runComparison(cmd, args[0], args[1], report.FormatFloors)
	},
}

func init() {
	floorsCmd.Flags().Float64VarP(&compareThreshold, "threshold", "t", 0, "Move threshold in meters (default from config, 0.5)")
}
