// ABOUTME: CLI command for classifying a single metric reading.
// ABOUTME: Prints tier, status text and card color, or JSON with --json.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/models"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:     "classify <metric-key> <value>",
	Aliases: []string{"c"},
	Short:   "Classify one metric reading",
	Long: `Classify a single reading against the band tables.

Keys are the measurement SDK metric keys (HR_BPM, BP_SYSTOLIC, BMI_CALC, ...).
Run 'vitalscan catalog' for the full list.

Keys without a tier table are reported as unclassified. Pass --legacy to
report them as good instead.

EXAMPLES:

  vitalscan classify HR_BPM 72
  vitalscan classify BP_SYSTOLIC 145 --json
  vitalscan classify AGE 40 --legacy`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		r := engine().Classify(key, value)
		if classifyJSON {
			return writeJSON(cmd, r)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		name := key
		if entry, ok := models.Lookup(models.MetricKey(key)); ok {
			name = entry.Name
		}
		fmt.Fprintf(out, "%s %s\n", padRight(key, 28), faint.Sprint(name))
		fmt.Fprintf(out, "  tier    %s\n", tierColor(r.Tier).Sprint(r.TierLabel))
		fmt.Fprintf(out, "  status  %s %s\n", r.Status, faint.Sprint(r.Color))
		return nil
	},
}

// tierColor picks a terminal color for a tier.
func tierColor(t models.Tier) *color.Color {
	switch t {
	case models.TierExcellent, models.TierGood:
		return color.New(color.FgGreen)
	case models.TierFair:
		return color.New(color.FgYellow)
	case models.TierPoor, models.TierVeryPoor:
		return color.New(color.FgRed)
	}
	return color.New(color.Faint)
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(classifyCmd)
}
