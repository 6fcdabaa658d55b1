// ABOUTME: CLI commands for translating between partner and internal vocabulary.
// ABOUTME: Covers inbound records, outbound payloads and intake forms.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/normalize"
	"github.com/develbass/vitalscan/internal/rapidoc"
)

var recordBeneficiary string

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Translate health-record vocabulary",
	Long: `Translate health-record fields between partner and internal spelling.

  inbound    Partner record to internal values (smoke, gender, diabetes, ...)
  outbound   Internal health informations to partner spelling`,
}

var normalizeInboundCmd = &cobra.Command{
	Use:   "inbound [file]",
	Short: "Normalize a partner health record",
	Long: `Normalize a health record as returned by the partner API.

Booleans become true/false, gender becomes male/female and diabetes becomes
type1/type2/none. Unknown fields pass through. Fields whose value cannot be
normalized are removed.

EXAMPLES:

  vitalscan normalize inbound record.json
  echo '{"smoke":"yes","gender":"M"}' | vitalscan normalize inbound`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rec models.HealthRecord
		if err := decodeInput(cmd, argOrEmpty(args), &rec); err != nil {
			return err
		}
		return writeJSON(cmd, normalize.InboundRecord(rec))
	},
}

var normalizeOutboundCmd = &cobra.Command{
	Use:   "outbound [file]",
	Short: "Render health informations in partner spelling",
	Long: `Validate internal health informations and render the vocabulary fields
the way the partner API expects them.

EXAMPLES:

  vitalscan normalize outbound info.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var h models.HealthInformations
		if err := decodeInput(cmd, argOrEmpty(args), &h); err != nil {
			return err
		}
		if err := rapidoc.ValidateHealthInformations(h); err != nil {
			return err
		}
		return writeJSON(cmd, normalize.OutboundHealthInformations(h))
	},
}

var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Convert an intake form to partner health informations",
	Long: `Convert a filled intake form into the payload saved to the partner
health-record API. Imperial forms are converted to centimetres and
kilograms.

The form is a JSON object with the fields age, unit, heightMetric,
heightFeet, heightInches, weight, sex, smoking, bloodPressureMedication and
diabetesStatus.

EXAMPLES:

  vitalscan record form.json --beneficiary 3f2b...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := models.NewFormState()
		if err := decodeInput(cmd, argOrEmpty(args), &form); err != nil {
			return err
		}

		h := normalize.FormToHealthInformations(form, recordBeneficiary)
		if err := rapidoc.ValidateHealthInformations(h); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("warning: %v", err))
		}
		return writeJSON(cmd, normalize.OutboundHealthInformations(h))
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordBeneficiary, "beneficiary", "", "beneficiary UUID")

	normalizeCmd.AddCommand(normalizeInboundCmd)
	normalizeCmd.AddCommand(normalizeOutboundCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(recordCmd)
}
