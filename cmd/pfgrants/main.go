// Command pfgrants loads IRS 990-PF grant data into analytical tables.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pfgrants/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pfgrants/internal/adapters/driven/fetch/httpfetch"
	"github.com/custodia-labs/pfgrants/internal/adapters/driven/index/s3"
	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables"
	"github.com/custodia-labs/pfgrants/internal/adapters/driving/cli"
	"github.com/custodia-labs/pfgrants/internal/core/services"
	"github.com/custodia-labs/pfgrants/internal/extractors/irs990pf"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetBootstrap(build)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// build wires adapters to services from the resolved settings.
func build(configDir string) (*cli.Services, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsSvc := services.NewSettingsService(store)
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}

	index := s3.NewReader(settings.Index, settings.AWS)
	pipeline := services.NewPipelineService(
		*settings,
		index,
		httpfetch.New(settings.Fetch),
		irs990pf.New(),
		tables.NewDefaultFactory(),
	)

	return &cli.Services{
		Pipeline: pipeline,
		Index:    services.NewIndexService(index),
		Settings: settingsSvc,
	}, nil
}
