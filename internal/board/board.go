// Package board renders positions for the viewer.
package board

import (
	"fmt"
	"io"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/corentings/chess/v2"
)

const (
	squareSize = 60
	margin     = 20
	boardSize  = 8*squareSize + 2*margin
)

// Colors of the rendered board.
var (
	LightSquare = "#f0d9b5"
	DarkSquare  = "#b58863"
	Frame       = "#302e2b"
)

var glyphs = map[chess.Color]map[chess.PieceType]string{
	chess.White: {chess.King: "♔", chess.Queen: "♕", chess.Rook: "♖", chess.Bishop: "♗", chess.Knight: "♘", chess.Pawn: "♙"},
	chess.Black: {chess.King: "♚", chess.Queen: "♛", chess.Rook: "♜", chess.Bishop: "♝", chess.Knight: "♞", chess.Pawn: "♟"},
}

// Options controls RenderSVG.
type Options struct {
	// Flip draws the board from Black's side.
	Flip bool
}

// RenderSVG writes the position described by fen as an SVG document.
func RenderSVG(w io.Writer, fen string, opts Options) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("render %q: %w", fen, err)
	}
	pieces := chess.NewGame(opt).Position().Board().SquareMap()

	canvas := svg.New(w)
	canvas.Start(boardSize, boardSize)
	canvas.Rect(0, 0, boardSize, boardSize, "fill:"+Frame)

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			x, y := squareOrigin(file, rank, opts.Flip)
			fill := DarkSquare
			if (file+rank)%2 == 1 {
				fill = LightSquare
			}
			canvas.Rect(x, y, squareSize, squareSize, "fill:"+fill)
		}
	}
	for sq, p := range pieces {
		if p == chess.NoPiece {
			continue
		}
		x, y := squareOrigin(int(sq.File()), int(sq.Rank()), opts.Flip)
		canvas.Text(x+squareSize/2, y+squareSize*3/4, glyphs[p.Color()][p.Type()],
			"font-size:46px;text-anchor:middle;fill:#000")
	}
	drawCoordinates(canvas, opts.Flip)
	canvas.End()
	return nil
}

// squareOrigin returns the top-left pixel of the square at file, rank
// (both 0-based, a1 = 0,0).
func squareOrigin(file, rank int, flip bool) (int, int) {
	col, row := file, 7-rank
	if flip {
		col, row = 7-file, rank
	}
	return margin + col*squareSize, margin + row*squareSize
}

func drawCoordinates(canvas *svg.SVG, flip bool) {
	style := "font-size:12px;text-anchor:middle;fill:#ddd;font-family:sans-serif"
	for i := 0; i < 8; i++ {
		x, _ := squareOrigin(i, 0, flip)
		canvas.Text(x+squareSize/2, boardSize-margin/3, string(rune('a'+i)), style)
		_, y := squareOrigin(0, i, flip)
		canvas.Text(margin/2, y+squareSize/2+4, fmt.Sprint(i+1), style)
	}
}

// Display is the board shown to a viewer. It holds the FEN of the position
// last pushed to it; the zero value shows the starting position.
type Display struct {
	mu  sync.RWMutex
	fen string
}

// SetPosition replaces the displayed position.
func (d *Display) SetPosition(fen string) {
	d.mu.Lock()
	d.fen = fen
	d.mu.Unlock()
}

// Position returns the displayed FEN.
func (d *Display) Position() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.fen == "" {
		return chess.StartingPosition().String()
	}
	return d.fen
}

// Render draws the displayed position.
func (d *Display) Render(w io.Writer, opts Options) error {
	return RenderSVG(w, d.Position(), opts)
}
