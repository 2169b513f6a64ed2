package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show comparison history",
	Long:  `Display saved comparisons, newest first.`,
	Run:   runLog,
}

var (
	logOneline bool
	logLimit   int
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each comparison on a single line")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of comparisons to show")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContext(cmd, true)
	defer c.Close()

	records, err := c.Store.ListComparisons(logLimit)
	if err != nil {
		exitError("failed to list comparisons: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No saved comparisons yet")
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, rec := range records {
		if logOneline {
			yellow.Printf("%s ", rec.ShortID())
			fmt.Printf("%s -> %s ", rec.OldProject, rec.NewProject)
			cyan.Printf("(%d changes)\n", rec.TotalChanges)
			continue
		}

		yellow.Printf("comparison %s\n", rec.ID)
		fmt.Printf("Date:    %s\n", rec.Timestamp.Local().Format("Mon Jan 2 15:04:05 2006"))
		fmt.Printf("Old:     %s\n", rec.OldProject)
		fmt.Printf("New:     %s\n", rec.NewProject)
		fmt.Printf("Changes: %d\n\n", rec.TotalChanges)
	}
}
