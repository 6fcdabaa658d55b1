// ABOUTME: Root Cobra command for vitalscan CLI.
// ABOUTME: Registers the global flags and shared input helpers.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/results"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var legacyFallback bool

var rootCmd = &cobra.Command{
	Use:     "vitalscan",
	Short:   "Vital-signs classification and partner bridge",
	Version: version,
	Long: `Vitalscan classifies face-scan vital-sign readings into health tiers and
bridges scan results and intake forms to the Rapidoc partner API.

CLASSIFICATION:

  $ vitalscan classify HR_BPM 72          # Tier and status for one reading
  $ vitalscan results scan.json           # Full dashboard for a results bag
  $ vitalscan flatten scan.json           # Partner submission payload

VOCABULARY:

  $ vitalscan normalize inbound record.json     # Partner record to internal form
  $ vitalscan normalize outbound info.json      # Internal payload to partner spelling
  $ vitalscan record form.json --beneficiary <uuid>

REFERENCE:

  $ vitalscan catalog                     # Metric keys, units and ranges
  $ vitalscan export markdown             # Every band table
  $ vitalscan export xlsx -o bands.xlsx

SERVICES:

  $ vitalscan serve                       # HTTP backend proxy
  $ vitalscan mcp                         # MCP server over stdio

CONFIGURATION:

  Settings are read from ~/.config/vitalscan/config.json, then from a .env
  file in the working directory, then from the environment (API_URL,
  RPD_API_URL, TEMA_URL, RPDADMIN_TOKEN, RPD_CLIENTID, STUDY_ID, PORT).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&legacyFallback, "legacy", false, "classify keys without a band table as good")
}

func engine() *classify.Engine {
	if legacyFallback {
		return classify.NewEngine(classify.WithLegacyFallback())
	}
	return classify.Default
}

// openInput opens path for reading, or the command's stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func decodeInput(cmd *cobra.Command, path string, v any) error {
	r, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	return nil
}

// readResults accepts either a results document ({"points": {...}}) or a
// bare points bag.
func readResults(cmd *cobra.Command, path string) (results.Results, error) {
	var raw json.RawMessage
	if err := decodeInput(cmd, path, &raw); err != nil {
		return results.Results{}, err
	}

	var doc results.Results
	if err := json.Unmarshal(raw, &doc); err == nil && len(doc.Points) > 0 {
		return doc, nil
	}

	var bag results.Bag
	if err := json.Unmarshal(raw, &bag); err != nil {
		return results.Results{}, fmt.Errorf("failed to parse results: %w", err)
	}
	return results.Results{Points: bag}, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	if n := len([]rune(s)); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}
