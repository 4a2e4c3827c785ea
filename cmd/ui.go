package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/commitfit/internal/operation"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/internal/ui"
)

// UICommand returns the CLI command for starting the browser console
func UICommand() *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Start the browser console",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the console server (overrides ui.port)",
			},
			backendURLFlag,
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			port := cfg.UI.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}

			server, err := ui.NewServer(ui.Options{
				Port:         port,
				Definitions:  operation.Definitions(cfg.Endpoint),
				Sender:       transport.NewClient(cfg.Backend.URL, nil),
				DiscardStale: cfg.Operations.DiscardStale,
			})
			if err != nil {
				return err
			}

			log.Info().
				Str("backend", cfg.Backend.URL).
				Bool("discard_stale", cfg.Operations.DiscardStale).
				Msg("Starting console")
			return server.Start()
		},
	}
}
