package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract <file.xml>",
	Short: "Extract filer and recipients from a local return",
	Long:  `Runs the 990-PF extractor on a local XML file and prints the records it finds.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print records as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if pipeline == nil {
		return fmt.Errorf("pipeline: %w", errNotConfigured)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	x, err := pipeline.Extract(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", args[0], err)
	}

	if extractJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(x)
	}

	printExtraction(cmd, x)
	return nil
}

func printExtraction(cmd *cobra.Command, x *domain.Extraction) {
	if x.Filer == nil {
		cmd.Println("Filer: none")
	} else {
		f := x.Filer
		cmd.Printf("Filer: %s %s\n", f.EIN, orDash(f.Name))
		cmd.Printf("  Address: %s\n", formatAddress(f.Address))
		cmd.Printf("  Phone:   %s\n", orDash(f.Phone))
		cmd.Printf("  Assets:  %s  Corpus: %s  Cash: %s\n",
			orDash(f.TotalAssetsEOYAmt), orDash(f.TotalCorpusAmt), orDash(f.CashEOYAmt))
	}

	cmd.Printf("Recipients: %d\n", len(x.Recipients))
	for i, r := range x.Recipients {
		cmd.Printf("  %d. %s  %s\n", i+1, orDash(r.Name), orDash(r.Amount))
		cmd.Printf("     %s\n", formatAddress(r.Address))
		if r.Purpose != nil {
			cmd.Printf("     Purpose: %s\n", *r.Purpose)
		}
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func formatAddress(a domain.Address) string {
	if a.IsEmpty() {
		return "-"
	}
	var parts []string
	for _, p := range []*string{a.Line1, a.Line2, a.City, a.StateOrProvince, a.ZIP, a.Country} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}
