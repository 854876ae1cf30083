package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

var (
	indexPeekLines int
	indexFormType  string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the e-file index",
}

var indexPeekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Print the first lines of the index object",
	Args:  cobra.NoArgs,
	RunE:  runIndexPeek,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List index entries of one form type",
	Args:  cobra.NoArgs,
	RunE:  runIndexList,
}

func init() {
	indexPeekCmd.Flags().IntVar(&indexPeekLines, "lines", 50, "Number of lines to print")
	indexListCmd.Flags().StringVar(&indexFormType, "form-type", domain.FormType990PF, "Form type to list")

	indexCmd.AddCommand(indexPeekCmd)
	indexCmd.AddCommand(indexListCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexPeek(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return fmt.Errorf("index service: %w", errNotConfigured)
	}

	lines, err := indexService.Peek(cmd.Context(), indexPeekLines)
	if err != nil {
		return fmt.Errorf("failed to peek index: %w", err)
	}
	for _, l := range lines {
		cmd.Println(l)
	}
	return nil
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return fmt.Errorf("index service: %w", errNotConfigured)
	}

	entries, err := indexService.List(cmd.Context(), indexFormType)
	if err != nil {
		return fmt.Errorf("failed to list index: %w", err)
	}

	for _, e := range entries {
		cmd.Printf("%-10s %-7s %s  %s\n", e.EIN, e.TaxPeriod, e.URL, e.OrganizationName)
	}
	cmd.Printf("%d %s entries in %s\n", len(entries), indexFormType, indexService.Location())
	return nil
}
