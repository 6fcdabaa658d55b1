// ABOUTME: CLI command for exporting the metric catalog and band tables.
// ABOUTME: Supports JSON, YAML, Markdown and XLSX formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/export"
)

var (
	exportOutput string
	exportScope  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export metrics and band tables",
	Long: `Export the metric catalog and every classification band table.

FORMATS:

  json       Full JSON export
  yaml       YAML export with bands grouped by scope and table
  markdown   Markdown tables (for documentation/sharing)
  xlsx       Excel workbook with Bands and Metrics sheets (requires --output)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --scope, -s    Only include one scope: generic or a group name (markdown only)

EXAMPLES:

  vitalscan export json                      # Export all data as JSON
  vitalscan export yaml -o bands.yaml        # Save to file
  vitalscan export markdown --scope vitals   # Vitals label tables
  vitalscan export xlsx -o bands.xlsx        # Spreadsheet for review`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown", "xlsx"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		d := export.Collect()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = export.JSON(d)
		case "yaml":
			data, err = export.YAML(d)
		case "markdown":
			data = []byte(export.Markdown(d, exportScope))
		case "xlsx":
			if exportOutput == "" {
				return fmt.Errorf("xlsx export requires --output")
			}
			data, err = export.XLSX(d)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, markdown, or xlsx)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportScope, "scope", "s", "", "only include one band scope (markdown only)")

	rootCmd.AddCommand(exportCmd)
}
