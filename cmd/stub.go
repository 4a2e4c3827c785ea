package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/commitfit/internal/stub"
)

// StubCommand returns the command serving canned backend responses
func StubCommand() *cli.Command {
	return &cli.Command{
		Name:  "stub-backend",
		Usage: "Serve canned analytics responses for demos and manual testing",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the stub backend",
				Value:   5000,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			port := c.Int("port")
			log.Info().Int("port", port).Msg("Starting stub backend")
			return stub.NewServer(port, cfg.Endpoint).Start()
		},
	}
}
