package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/phi"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the PHI pattern catalog",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, p := range phi.Patterns() {
			fmt.Fprintf(out, "%-16s base=%.2f  %s\n", p.Category, p.BaseConfidence, p.HIPAACitation)
		}
	},
}
