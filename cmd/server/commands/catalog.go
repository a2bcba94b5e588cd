package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eye-diagnosis-api/internal/diagnosis"
	"eye-diagnosis-api/internal/knowledge"
)

func NewCatalogCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and print the condition catalog",
		Long: `Load the catalog from the configured source (CATALOG_SOURCE), validate it
and print it. JSON output includes each condition's normalized probability;
YAML output can be fed back through CATALOG_SOURCE=file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}

			a, err := newApp(cmd.Context(), io.Discard, nil)
			if err != nil {
				return err
			}

			if format == "yaml" {
				return knowledge.Encode(cmd.OutOrStdout(), a.kb)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(diagnosis.ConditionViews(a.kb))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}
