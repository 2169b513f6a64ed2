package cli

import (
	"os"
	"strings"

	"github.com/kilupskalvis/apdiff/internal/config"
	"github.com/kilupskalvis/apdiff/internal/report"
	"github.com/kilupskalvis/apdiff/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for apdiff.

To load completions:

Bash:
  $ source <(apdiff completion bash)
  # Or add to ~/.bashrc:
  $ echo 'source <(apdiff completion bash)' >> ~/.bashrc

Zsh:
  $ source <(apdiff completion zsh)

Fish:
  $ apdiff completion fish > ~/.config/fish/completions/apdiff.fish

PowerShell:
  PS> apdiff completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	})

	showCmd.ValidArgsFunction = completeComparisonIDs
	for _, cmd := range []*cobra.Command{compareCmd, batchCmd} {
		cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
	compareCmd.ValidArgsFunction = completeSnapshotFiles
	floorsCmd.ValidArgsFunction = completeSnapshotFiles
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return report.Formats, cobra.ShellCompDirectiveNoFileComp
}

func completeSnapshotFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "esx", "zip"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeComparisonIDs suggests saved comparison IDs from the workspace history.
func completeComparisonIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer st.Close()

	records, err := st.ListComparisons(0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	for _, rec := range records {
		if strings.HasPrefix(rec.ID, toComplete) {
			ids = append(ids, rec.ShortID()+"\t"+rec.OldProject+" -> "+rec.NewProject)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
