// Package render draws boards for clients that cannot lay out the JSON
// grid themselves.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/benbeisheim/chess-backend/internal/model"
	"golang.org/x/exp/slices"
)

const (
	squareSize = 60
	margin     = 20
	boardSize  = squareSize*8 + margin*2
)

var (
	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
	highlight   = "fill:#f6f669;fill-opacity:0.6"
	pieceStyle  = "font-size:44px;text-anchor:middle;dominant-baseline:central;font-family:serif"
	labelStyle  = "font-size:12px;text-anchor:middle;dominant-baseline:central;font-family:sans-serif;fill:#333"
)

// SVG writes b as an SVG document with white at the bottom and the
// highlighted squares tinted.
func SVG(w io.Writer, b *model.Board, highlighted []model.Position) {
	canvas := svg.New(w)
	canvas.Start(boardSize, boardSize)
	canvas.Rect(0, 0, boardSize, boardSize, "fill:#ffffff")

	for rank := 7; rank >= 0; rank-- {
		y := margin + (7-rank)*squareSize
		canvas.Text(margin/2, y+squareSize/2, fmt.Sprintf("%d", rank+1), labelStyle)
		for file := 0; file < 8; file++ {
			x := margin + file*squareSize
			style := darkSquare
			if (rank+file)%2 == 1 {
				style = lightSquare
			}
			pos := model.Position{Rank: rank, File: file}
			canvas.Rect(x, y, squareSize, squareSize, style)
			if slices.Contains(highlighted, pos) {
				canvas.Rect(x, y, squareSize, squareSize, highlight)
			}
			if p := b.At(pos); p != nil {
				canvas.Text(x+squareSize/2, y+squareSize/2, p.Symbol(), pieceStyle)
			}
		}
	}
	for file := 0; file < 8; file++ {
		x := margin + file*squareSize + squareSize/2
		canvas.Text(x, boardSize-margin/2, string(rune('a'+file)), labelStyle)
	}
	canvas.End()
}
