package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/commitfit/cmd"
	"github.com/commitfit/internal/config"
)

const (
	version = "0.1.0"
)

func main() {
	app := &cli.App{
		Name:    "commitfit",
		Usage:   "Operator console for commit history gathering and diffusion model fits",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				Value:   config.DefaultPath,
			},
		},
		Commands: []*cli.Command{
			cmd.UICommand(),
			cmd.RunCommand(),
			cmd.StubCommand(),
			cmd.ConfigCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
