package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rxtech-lab/market-pulse/internal/version"
	"github.com/urfave/cli/v3"
)

func newApp(stdout, stderr io.Writer) *cli.Command {
	state := &appState{}

	return &cli.Command{
		Name:      "marketpulse",
		Usage:     "Composite market regime score from price, volatility and breadth signals",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration `FILE` (default ~/.marketpulse/config.yaml)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding the local CSV and parquet cache",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file instead of stderr",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, state.load(cmd)
		},
		Commands: []*cli.Command{
			snapshotCommand(state),
			exportCommand(state),
			runCommand(state),
			cacheCommand(state),
			providersCommand(state),
			configCommand(state),
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
