package model

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ErrInvalidMove is the only error the rule engine raises.
var ErrInvalidMove = errors.New("invalid move")

// UndoRecord is what Undo needs to revert one Apply.
type UndoRecord struct {
	piece    *Piece
	from     Position
	captured *Piece
}

// Apply plays from->to without any legality check and returns the record
// that reverts it. The mover's MoveCount is incremented. Apply must only
// be given a square holding a piece.
func (b *Board) Apply(from, to Position) UndoRecord {
	piece := b.At(from)
	u := UndoRecord{piece: piece, from: from, captured: b.At(to)}
	b.squares[from.Rank][from.File] = nil
	b.squares[to.Rank][to.File] = piece
	piece.Position = to
	piece.MoveCount++
	return u
}

// Undo reverts an Apply. Records must be undone in reverse order.
func (b *Board) Undo(u UndoRecord) {
	to := u.piece.Position
	b.squares[to.Rank][to.File] = u.captured
	b.squares[u.from.Rank][u.from.File] = u.piece
	u.piece.Position = u.from
	u.piece.MoveCount--
}

// ValidMoves returns the legal destinations of the piece on pos: its
// pseudo-legal moves minus those that leave its own king in check.
func (b *Board) ValidMoves(pos Position) []Position {
	piece := b.At(pos)
	if piece == nil {
		return []Position{}
	}
	return b.validMoves(piece)
}

func (b *Board) validMoves(piece *Piece) []Position {
	legalMoves := []Position{}
	from := piece.Position
	for _, to := range piece.Moves(b) {
		u := b.Apply(from, to)
		if !b.InCheck(piece.Color) {
			legalMoves = append(legalMoves, to)
		}
		b.Undo(u)
	}
	return legalMoves
}

// InCheck reports whether any opposing piece's pseudo-legal moves reach
// the king of color c. It never consults ValidMoves.
func (b *Board) InCheck(c Color) bool {
	king, ok := b.FindKing(c)
	if !ok {
		return false
	}
	for _, p := range b.Pieces(c.Opponent()) {
		if slices.Contains(p.Moves(b), king) {
			return true
		}
	}
	return false
}

// Checkmate reports whether color c has no legal move at all. A stalemated
// side is reported as checkmated too.
func (b *Board) Checkmate(c Color) bool {
	for _, p := range b.Pieces(c) {
		if len(b.validMoves(p)) > 0 {
			return false
		}
	}
	return true
}

// Score is c's material minus the opponent's.
func (b *Board) Score(c Color) int {
	score := 0
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			p := b.squares[rank][file]
			if p == nil {
				continue
			}
			if p.Color == c {
				score += p.Type.Value()
			} else {
				score -= p.Type.Value()
			}
		}
	}
	return score
}

// Move validates from->to against a freshly computed legal move set and
// plays it. The board is untouched when an error is returned.
func (b *Board) Move(from, to Position) error {
	piece := b.At(from)
	if piece == nil {
		return fmt.Errorf("%w: no piece on %s", ErrInvalidMove, from)
	}
	if !slices.Contains(b.validMoves(piece), to) {
		return fmt.Errorf("%w: %s cannot move to %s", ErrInvalidMove, piece, to)
	}
	b.Apply(from, to)
	return nil
}
