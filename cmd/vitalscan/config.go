// ABOUTME: CLI commands for inspecting and saving vitalscan settings.
// ABOUTME: Secrets are masked when printed.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/develbass/vitalscan/internal/config"
)

var configFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings after the config file, .env and environment are
applied. The admin token is masked.

Use --file to inspect a different config file without the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error
		if configFile != "" {
			cfg, err = config.LoadFile(config.ExpandPath(configFile))
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		rows := [][2]string{
			{"api_url", cfg.GetPartnerAPIURL()},
			{"tema_url", cfg.TemaURL},
			{"rpdadmin_token", mask(cfg.AdminToken)},
			{"rpd_client_id", cfg.ClientID},
			{"study_id", cfg.StudyID},
			{"listen", cfg.ListenAddr()},
			{"log_level", cfg.GetLogLevel()},
			{"log_format", cfg.GetLogFormat()},
			{"prefetch_ttl", cfg.GetPrefetchTTL().String()},
			{"request_timeout", cfg.GetRequestTimeout().String()},
			{"legacy_fallback", fmt.Sprint(cfg.LegacyFallback)},
		}
		for _, r := range rows {
			v := r[1]
			if v == "" {
				v = faint.Sprint("(unset)")
			}
			fmt.Fprintf(out, "%s %s\n", padRight(r[0], 16), v)
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(out, color.YellowString("\n%v", err))
		}
		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective settings to the config file",
	Long: `Write the settings currently in effect (config file, .env and
environment combined) to ~/.config/vitalscan/config.json so later runs do
not need the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Saved to %s", config.GetConfigPath())
		return nil
	},
}

func mask(s string) string {
	if len(s) <= 4 {
		if s == "" {
			return ""
		}
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func init() {
	configShowCmd.Flags().StringVarP(&configFile, "file", "f", "", "read this config file only")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	rootCmd.AddCommand(configCmd)
}
