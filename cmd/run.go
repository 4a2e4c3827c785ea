package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/commitfit/internal/console"
	"github.com/commitfit/internal/operation"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

// RunCommand returns the terminal console command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run operations against a repository from the terminal",
		ArgsUsage: "gather|fit-bass|fit-innovation|all ...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Repository owner",
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "Repository name",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: pretty or json",
				Value:   console.OutputPretty,
			},
			backendURLFlag,
		},
		Action: runOperations,
	}
}

func runOperations(c *cli.Context) error {
	kinds, err := console.ParseKinds(c.Args().Slice())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	con, err := console.New(console.Options{
		Repo:         models.RepoRef{Owner: c.String("owner"), Repo: c.String("repo")},
		Definitions:  operation.Definitions(cfg.Endpoint),
		Sender:       transport.NewClient(cfg.Backend.URL, nil),
		DiscardStale: cfg.Operations.DiscardStale,
		Output:       c.String("output"),
		Out:          os.Stdout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = con.Run(ctx, kinds)
	return err
}
