package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/phi"
)

var (
	scanFile    string
	scanContext string
	scanJSON    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a file (or stdin) for PHI and report the aggregated risk",
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if scanFile == "" || scanFile == "-" {
			content, err = io.ReadAll(os.Stdin)
		} else {
			content, err = os.ReadFile(scanFile)
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		ctx := domain.ScanContext(scanContext)
		if ctx != domain.ContextUpload && ctx != domain.ContextExport {
			return fmt.Errorf("--context must be %q or %q", domain.ContextUpload, domain.ContextExport)
		}

		result := phi.Scan(string(content), ctx)
		if scanJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "scanned %d bytes (%s context)\n", result.ContentLength, result.Context)
		fmt.Fprintf(out, "risk: %s  requiresOverride: %v\n", result.RiskLevel, result.RequiresOverride)
		if len(result.Findings) == 0 {
			fmt.Fprintln(out, "no PHI detected")
			return nil
		}
		for _, f := range result.Findings {
			fmt.Fprintf(out, "  [%s] conf=%.2f span=%d-%d action=%s evidence=%s (%s)\n",
				f.Category, f.Confidence, f.Start, f.End, f.Action, f.Evidence, f.HIPAACitation)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "file to scan (default stdin)")
	scanCmd.Flags().StringVarP(&scanContext, "context", "c", string(domain.ContextUpload), "scan context: upload or export")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit the full scan result as JSON")
}
