// Package cli provides the pfgrants command line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
	"github.com/custodia-labs/pfgrants/internal/logger"
)

// Services are the driving ports the commands call.
type Services struct {
	Pipeline driving.Pipeline
	Index    driving.IndexService
	Settings driving.SettingsService
}

// Bootstrap builds the services once flags are parsed.
// configDir is empty unless --config-dir was given.
type Bootstrap func(configDir string) (*Services, error)

var (
	version = "dev"

	verbose   bool
	configDir string

	bootstrap Bootstrap

	pipeline        driving.Pipeline
	indexService    driving.IndexService
	settingsService driving.SettingsService
)

var errNotConfigured = errors.New("services not configured")

var rootCmd = &cobra.Command{
	Use:   "pfgrants",
	Short: "Load IRS 990-PF grant data into analytical tables",
	Long: `pfgrants reads the e-file index, fetches every Form 990-PF return it lists,
extracts the filing foundation and its grant recipients, and writes them to
a donors table and a recipients table in BigQuery or a local SQLite file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.pfgrants)")
}

// setup applies global flags and builds the services.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetTimestamps(!isTerminal(os.Stderr))

	if bootstrap == nil {
		return nil
	}
	svc, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices wires the driving ports used by the commands.
func SetServices(svc *Services) {
	if svc == nil {
		return
	}
	pipeline = svc.Pipeline
	indexService = svc.Index
	settingsService = svc.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
