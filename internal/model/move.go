package model

import "fmt"

// Ply is one executed move as recorded in a game's history.
type Ply struct {
	Piece         Piece    `json:"piece"`
	From          Position `json:"from"`
	To            Position `json:"to"`
	CapturedPiece *Piece   `json:"capturedPiece"`
	Notation      string   `json:"notation"`
}

// makePly must be called before the move is played on b.
func makePly(b *Board, move Move) Ply {
	piece := b.At(move.From)
	var captured *Piece
	if c := b.At(move.To); c != nil {
		captured = c.clone()
	}
	return Ply{
		Piece:         *piece,
		From:          move.From,
		To:            move.To,
		CapturedPiece: captured,
		Notation:      getNotation(b, move),
	}
}

func getNotation(b *Board, move Move) string {
	piece := b.At(move.From)
	from := move.From
	to := move.To
	pieceNotationPrefix := piece.Type.getPieceNotation()
	pieceNotationCapture := ""
	if b.At(to) != nil {
		pieceNotationCapture = "x"
	}
	pawnFileSpecifier := ""
	if piece.Type == Pawn && from.File != to.File {
		pawnFileSpecifier = from.getFileNotation()
	}
	return fmt.Sprintf("%s%s%s%s", pieceNotationPrefix, pawnFileSpecifier, pieceNotationCapture, to)
}
