// ABOUTME: CLI commands for rendering and flattening a finished scan.
// ABOUTME: Reads a results bag from a file or stdin.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/results"
)

var (
	resultsJSON bool
	flattenScan string
)

var resultsCmd = &cobra.Command{
	Use:     "results [file]",
	Aliases: []string{"r"},
	Short:   "Show the dashboard for a scan",
	Long: `Classify every reading of a finished scan and print it grouped into
dashboard sections.

The input is either a results document ({"points": {...}}) or a bare
points bag ({"HR_BPM": {"value": "72"}, ...}). Reads stdin when no file
is given or the file is "-".

OUTPUT FORMAT:

  Each line shows: KEY  VALUE UNIT  STATUS

EXAMPLES:

  vitalscan results scan.json
  cat scan.json | vitalscan results
  vitalscan results scan.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := readResults(cmd, argOrEmpty(args))
		if err != nil {
			return err
		}

		dash, err := results.BuildDashboard(r.Points, engine())
		if errors.Is(err, results.ErrNoResults) {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		if err != nil {
			return err
		}
		if resultsJSON {
			return writeJSON(cmd, dash)
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		for _, s := range dash.Sections {
			if len(s.Cards) == 0 {
				continue
			}
			fmt.Fprintln(out, bold.Sprint(s.Title))
			for _, c := range s.Cards {
				fmt.Fprintf(out, "  %s %s %s %s\n",
					padRight(truncate(c.Name, 32), 32),
					padRight(c.Display, 8),
					faint.Sprint(padRight(c.Unit, 10)),
					tierColor(c.Tier).Sprint(c.Status))
			}
		}
		return nil
	},
}

var flattenCmd = &cobra.Command{
	Use:   "flatten [file]",
	Short: "Build the partner submission payload for a scan",
	Long: `Flatten a results bag into the numeric map submitted to the partner scan
endpoint. Each metric is written under its own key and under every legacy
alias (HR_BPM is also sent as ppm). Readings without a numeric value are
dropped.

EXAMPLES:

  vitalscan flatten scan.json
  vitalscan flatten scan.json --scan 7a1c...   # include uuid and identifiers`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := readResults(cmd, argOrEmpty(args))
		if err != nil {
			return err
		}
		if flattenScan != "" {
			return writeJSON(cmd, results.ScanSubmission(flattenScan, r))
		}
		return writeJSON(cmd, results.FlattenForSubmission(r.Points))
	},
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "print the dashboard as JSON")
	flattenCmd.Flags().StringVar(&flattenScan, "scan", "", "scan UUID to include with the measurement identifiers")
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(flattenCmd)
}
