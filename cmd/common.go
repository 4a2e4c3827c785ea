package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/commitfit/internal/config"
	"github.com/commitfit/internal/logging"
)

var backendURLFlag = &cli.StringFlag{
	Name:    "backend-url",
	Aliases: []string{"b"},
	Usage:   "Analytics backend base URL (overrides backend.url)",
}

// loadConfig reads the global --config file, applies the backend override
// and configures logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("backend-url") {
		cfg.Backend.URL = c.String("backend-url")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr); err != nil {
		return nil, err
	}

	return cfg, nil
}
