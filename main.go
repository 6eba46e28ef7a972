package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "chessview: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	lf := &cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Usage:   "logger level (debug, info, warn, error)",
	}
	df := &cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "shorthand for --level debug",
	}
	cf := &cli.BoolFlag{
		Name:    "dev",
		Aliases: []string{"c"},
		Usage:   "console logger encoding",
	}
	af := &cli.StringFlag{
		Name:  "addr",
		Usage: "listen address (overrides CHESSVIEW_ADDR)",
	}
	// root flags are inherited by the subcommands
	rootff := []cli.Flag{af, lf, df, cf}
	replayff := []cli.Flag{
		&cli.StringFlag{Name: "pgn", Usage: "path to PGN file", Required: true},
		&cli.IntFlag{Name: "game", Value: 1, Usage: "game number within the file"},
	}

	return &cli.Command{
		Name:    "chessview",
		Usage:   "step through chess games move by move",
		Version: versionString(),
		Flags:   rootff,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the web viewer",
				Action: runServe,
			},
			{
				Name:   "replay",
				Usage:  "print the positions of a game in a PGN file",
				Flags:  replayff,
				Action: runReplay,
			},
		},
		Action: runServe,
	}
}
