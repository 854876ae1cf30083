package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Settings resolve from PFGRANTS_* environment variables, then the config
file, then built-in defaults.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved settings and where each value came from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values, err := settingsService.Describe()
	if err != nil {
		return fmt.Errorf("failed to resolve settings: %w", err)
	}

	cmd.Printf("Config file: %s\n\n", settingsService.Path())
	for _, v := range values {
		val := v.Value
		if val == "" {
			val = "(not set)"
		}
		cmd.Printf("  %-28s %-50s [%s]\n", v.Key, val, v.Source)
	}

	if unknown := settingsService.Unknown(); len(unknown) > 0 {
		cmd.Printf("\nIgnored keys in config file: %s\n", strings.Join(unknown, ", "))
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("\nNot ready to run: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}

	cmd.Printf("%s reset to default\n", args[0])
	return nil
}
