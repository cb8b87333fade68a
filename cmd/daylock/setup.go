// ABOUTME: Cobra command for interactive streak and remote sync setup.
// ABOUTME: Launches a bubbletea TUI wizard and saves the result to the config file.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/daylock/internal/config"
	"github.com/2389-research/daylock/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the grace period and remote sync",
	Long:  "Interactive wizard to choose the streak grace period and configure remote sync credentials.",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(tui.SetupResult{
		GracePeriod: cfg.Streak.GracePeriod,
		Sync:        cfg.HasRemote(),
		APIURL:      cfg.Sync.APIURL,
		TeamID:      cfg.Sync.TeamID,
		APIKey:      cfg.Sync.APIKey,
	})

	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
		return nil
	}

	applySetup(cfg, final.Result())
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Config saved successfully.")
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configPath)
	}
	return nil
}

// applySetup copies the wizard result into cfg. Declining sync clears stored credentials.
func applySetup(cfg *config.Config, res tui.SetupResult) {
	cfg.Streak.GracePeriod = res.GracePeriod
	cfg.Sync = config.SyncConfig{
		APIURL: res.APIURL,
		TeamID: res.TeamID,
		APIKey: res.APIKey,
	}
}
