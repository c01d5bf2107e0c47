package model

import "strings"

// Board is the 8x8 grid, indexed [rank][file]. Each piece's Position
// matches the cell holding it.
type Board struct {
	squares [8][8]*Piece
}

func NewEmptyBoard() *Board {
	return &Board{}
}

var backRank = []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	board := NewEmptyBoard()
	for file, t := range backRank {
		board.Place(NewPiece(t, White, Position{Rank: 0, File: file}))
		board.Place(NewPiece(Pawn, White, Position{Rank: 1, File: file}))
		board.Place(NewPiece(Pawn, Black, Position{Rank: 6, File: file}))
		board.Place(NewPiece(t, Black, Position{Rank: 7, File: file}))
	}
	return board
}

// At returns the piece on pos, or nil for an empty or off-board square.
func (b *Board) At(pos Position) *Piece {
	if !boundaryCheck(pos) {
		return nil
	}
	return b.squares[pos.Rank][pos.File]
}

// Place puts p on the square named by p.Position, replacing any occupant.
func (b *Board) Place(p *Piece) {
	b.squares[p.Position.Rank][p.Position.File] = p
}

// Remove clears pos and returns what was there.
func (b *Board) Remove(pos Position) *Piece {
	p := b.At(pos)
	if p != nil {
		b.squares[pos.Rank][pos.File] = nil
	}
	return p
}

// Pieces lists the pieces of color c, rank by rank from a1.
func (b *Board) Pieces(c Color) []*Piece {
	pieces := []*Piece{}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if p := b.squares[rank][file]; p != nil && p.Color == c {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) FindKing(c Color) (Position, bool) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if p := b.squares[rank][file]; p != nil && p.Color == c && p.Type == King {
				return p.Position, true
			}
		}
	}
	return Position{}, false
}

// Clone returns a deep copy; nothing done to it is visible on b.
func (b *Board) Clone() *Board {
	c := &Board{}
	for rank := range b.squares {
		for file, p := range b.squares[rank] {
			if p != nil {
				c.squares[rank][file] = p.clone()
			}
		}
	}
	return c
}

// String draws the board from white's side, rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			if p := b.squares[rank][file]; p != nil {
				sb.WriteString(p.Symbol())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
