package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"chessview/internal/replay"
	"chessview/internal/source"
)

func runReplay(ctx context.Context, c *cli.Command) error {
	setup(c)
	f, err := os.Open(c.String("pgn"))
	if err != nil {
		return err
	}
	defer f.Close()
	return printReplay(os.Stdout, filepath.Base(f.Name()), f, int(c.Int("game")))
}

// printReplay writes one line per snapshot of game n (1-based) of a PGN
// file: index, move and FEN.
func printReplay(w io.Writer, name string, r io.Reader, n int) error {
	recs, err := source.ReadFile(name, r)
	if err != nil {
		return err
	}
	if n < 1 || n > len(recs) {
		return fmt.Errorf("game %d out of range: file has %d valid games", n, len(recs))
	}
	rec := recs[n-1]
	seq, err := replay.FromPGN(rec.PGN)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s) %s\n", rec.Title(), rec.Result, rec.Event)
	for i, snap := range seq.Snapshots() {
		fmt.Fprintf(w, "%3d  %-18s %s\n", i, snap.SAN, snap.FEN)
	}
	return nil
}
