package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/ui"
)

// Doctor validates the local environment: required tools, configuration,
// API token and API connectivity. It reports every finding and returns an
// error when any check failed.
func Doctor(ctx context.Context, configPath string) error {
	printer := ui.NewPrinter(os.Stdout)
	printer.Headline("hostforge doctor")
	failed := false

	// Local tools
	results := checkInitiatorPrereqs()
	for _, r := range results.Results {
		switch {
		case r.Found:
			printer.Success("%s %s", r.Tool.Name, r.Version)
		case r.Tool.Required:
			printer.Failure("%s not found (%s)", r.Tool.Name, r.Tool.InstallURL)
			failed = true
		default:
			printer.Info("     %s not found (optional)", r.Tool.Name)
		}
	}

	// Configuration
	cfg, err := loadDoctorConfig(configPath)
	switch {
	case err != nil:
		printer.Failure("config: %v", err)
		failed = true
	case cfg == nil:
		printer.Info("     no config file (the up command will start the wizard)")
	default:
		printer.Success("config valid (server_type=%s location=%s)", cfg.ServerType, cfg.Location)
	}

	// Token and API connectivity
	token := os.Getenv(config.EnvToken)
	if token == "" {
		printer.Failure("%v", config.ErrMissingToken)
		failed = true
	} else {
		printer.Success("%s is set", config.EnvToken)
		cloud := newCloudClient(token)
		if _, err := cloud.GetServerByName(ctx, "hostforge-doctor-probe"); err != nil {
			printer.Failure("API connectivity: %v", err)
			failed = true
		} else {
			printer.Success("API reachable")
		}
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	printer.Info("All checks passed.")
	return nil
}

// loadDoctorConfig loads the config for diagnosis. A missing file is not an
// error here; (nil, nil) means no config was found.
func loadDoctorConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
		if configPath == "" {
			return nil, nil
		}
	}
	return loadConfigFile(configPath)
}
