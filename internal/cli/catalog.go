package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/catalog"
)

var catalogFile string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print a stage catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Default()
		if catalogFile != "" {
			var err error
			cat, err = catalog.LoadFile(catalogFile)
			if err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		for _, s := range cat.Stages() {
			flags := ""
			if s.AIEnabled {
				flags += " ai"
			}
			if s.AttestationRequired {
				flags += " attest"
			}
			if s.PHIGated {
				flags += " phi-gated"
			}
			fmt.Fprintf(out, "%2d  %-24s %-12s -> %s%s\n", s.StageID, s.Name, s.Phase, s.RequiredState, flags)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "stage catalog YAML (default built-in)")
}
