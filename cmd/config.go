package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/CosmicDialog/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
	Long:  `Inspect or interactively create the TOML config file.`,
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", cfg.Path())
		if err := toml.NewEncoder(out).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	},
}

var pathConfigCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Prompt for latency
		latencyPrompt := promptui.Prompt{
			Label:    "Tool latency",
			Default:  cfg.Latency.String(),
			Validate: validateLatency,
		}
		latencyValue, err := latencyPrompt.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		d, _ := time.ParseDuration(latencyValue)
		cfg.Latency = config.Duration{Duration: d}

		// Prompt for search results
		resultsPrompt := promptui.Prompt{
			Label:    "Search results",
			Default:  strconv.Itoa(cfg.SearchResults),
			Validate: validateSearchResults,
		}
		resultsValue, err := resultsPrompt.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		cfg.SearchResults, _ = strconv.Atoi(resultsValue)

		// Prompt for greeting (empty disables it)
		greetingPrompt := promptui.Prompt{
			Label:     "Greeting",
			Default:   cfg.Greeting,
			AllowEdit: true,
		}
		cfg.Greeting, err = greetingPrompt.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		// Select markdown style
		stylePrompt := promptui.Select{
			Label:     "Markdown style",
			Items:     config.MarkdownStyles,
			CursorPos: indexOf(config.MarkdownStyles, cfg.MarkdownStyle),
		}
		_, cfg.MarkdownStyle, err = stylePrompt.Run()
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}

		// Confirm agent console visibility
		logsPrompt := promptui.Prompt{
			Label:     "Show the agent console on start",
			IsConfirm: true,
			Default:   "y",
		}
		_, err = logsPrompt.Run()
		switch {
		case err == nil:
			cfg.ShowLogs = true
		case errors.Is(err, promptui.ErrAbort):
			cfg.ShowLogs = false
		default:
			return fmt.Errorf("prompt failed: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		logger.Info("Config written", zap.String("path", cfg.Path()))
		fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", cfg.Path())
		return nil
	},
}

func validateLatency(input string) error {
	d, err := time.ParseDuration(input)
	if err != nil {
		return errors.New(`enter a duration such as "450ms"`)
	}
	if d < 0 {
		return errors.New("latency must not be negative")
	}
	return nil
}

func validateSearchResults(input string) error {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return errors.New("enter a whole number of at least 1")
	}
	return nil
}

func indexOf(items []string, item string) int {
	for i, s := range items {
		if s == item {
			return i
		}
	}
	return 0
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(pathConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}
