// ABOUTME: Cobra command to show or persist the streak grace period preference.
// ABOUTME: Edits the config file only, so it works before any journal exists.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/daylock/internal/config"
)

var graceCmd = &cobra.Command{
	Use:       "grace [on|off]",
	Short:     "Show or set the streak grace period",
	Long:      "With the grace period on, one missed day per streak does not break it.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runGrace,
}

func init() {
	rootCmd.AddCommand(graceCmd)
}

func runGrace(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Grace period: %s\n", onOff(cfg.Streak.GracePeriod))
		return nil
	}

	// Environment overrides must not leak into the saved file.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Streak.GracePeriod = strings.EqualFold(args[0], "on")
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Grace period: %s\n", onOff(cfg.Streak.GracePeriod))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
