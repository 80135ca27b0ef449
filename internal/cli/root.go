package cli

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "rfgov",
	Short: "Governance tooling for the research authoring pipeline",
	Long: `rfgov runs governance checks offline: PHI scans over local files,
pattern catalog inspection, and stage catalog validation. The running
service makes the same decisions; this tool lets reviewers dry-run them.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(catalogCmd)
}
