// ABOUTME: CLI command for listing the metric catalog.
// ABOUTME: Supports filtering by dashboard group.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/models"
)

var catalogGroup string

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"ls"},
	Short:   "List metric keys",
	Long: `List every metric key the classifier knows about.

OUTPUT FORMAT:

  Each line shows: KEY  GROUP  NAME  UNIT  (RANGE)

FILTERING:

  Use --group to keep one dashboard group:
    vitals, physiological, mental, physical, general-risks,
    metabolic-risks, blood-biomarkers, overall-scores, signal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		eng := engine()

		n := 0
		for _, m := range models.Catalog {
			if catalogGroup != "" && string(m.Group) != catalogGroup {
				continue
			}
			n++
			marker := " "
			if !eng.HasTable(string(m.Key)) {
				marker = faint.Sprint("*")
			}
			fmt.Fprintf(out, "%s%s %s %s %s%s\n",
				marker,
				padRight(string(m.Key), 28),
				faint.Sprint(padRight(string(m.Group), 17)),
				padRight(truncate(m.Name, 40), 40),
				padRight(m.Unit, 10),
				faint.Sprintf(" (%s)", m.Range))
		}
		if n == 0 {
			fmt.Fprintln(out, "No metrics found.")
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogGroup, "group", "g", "", "filter by dashboard group")
	rootCmd.AddCommand(catalogCmd)
}
