package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// Value is the material weight used by Score.
func (p PieceType) Value() int {
	switch p {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return 400
	}
	return 0
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank delta a pawn of this color advances by.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

type Piece struct {
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	Position  Position  `json:"position"`
	MoveCount int       `json:"moveCount"`
}

func NewPiece(t PieceType, c Color, pos Position) *Piece {
	return &Piece{Type: t, Color: c, Position: pos}
}

var (
	orthogonalDirs = []Position{{Rank: 0, File: 1}, {Rank: 0, File: -1}, {Rank: 1, File: 0}, {Rank: -1, File: 0}}
	diagonalDirs   = []Position{{Rank: 1, File: 1}, {Rank: -1, File: -1}, {Rank: 1, File: -1}, {Rank: -1, File: 1}}
	knightDirs     = []Position{{Rank: 2, File: 1}, {Rank: 1, File: 2}, {Rank: -1, File: 2}, {Rank: -2, File: -1}, {Rank: -2, File: 1}, {Rank: -1, File: -2}, {Rank: 1, File: -2}, {Rank: 2, File: -1}}

	rookDirs   = orthogonalDirs
	bishopDirs = diagonalDirs
	queenDirs  = append(append([]Position{}, orthogonalDirs...), diagonalDirs...)
	kingDirs   = append(append([]Position{}, diagonalDirs...), orthogonalDirs...)
)

// Moves returns the pseudo-legal destinations of p on b. It ignores whether
// the move would leave p's own king attacked; see Board.ValidMoves.
func (p *Piece) Moves(b *Board) []Position {
	switch p.Type {
	case Pawn:
		return p.pawnMoves(b)
	case Knight:
		return p.stepMoves(b, knightDirs)
	case Bishop:
		return p.slideMoves(b, bishopDirs)
	case Rook:
		return p.slideMoves(b, rookDirs)
	case Queen:
		return p.slideMoves(b, queenDirs)
	case King:
		return p.stepMoves(b, kingDirs)
	default:
		return []Position{}
	}
}

func (p *Piece) slideMoves(b *Board, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		targetPos := p.Position.offset(dir)
		for boundaryCheck(targetPos) {
			occupant := b.At(targetPos)
			if occupant == nil {
				moves = append(moves, targetPos)
			} else {
				if occupant.Color != p.Color {
					moves = append(moves, targetPos)
				}
				break
			}
			targetPos = targetPos.offset(dir)
		}
	}
	return moves
}

func (p *Piece) stepMoves(b *Board, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		targetPos := p.Position.offset(dir)
		if !boundaryCheck(targetPos) {
			continue
		}
		if occupant := b.At(targetPos); occupant == nil || occupant.Color != p.Color {
			moves = append(moves, targetPos)
		}
	}
	return moves
}

func (p *Piece) pawnMoves(b *Board) []Position {
	moves := []Position{}
	fwd := p.Color.forward()
	// captures toward the h-file first, then the a-file
	for _, df := range []int{1, -1} {
		targetPos := p.Position.offset(Position{Rank: fwd, File: df})
		if !boundaryCheck(targetPos) {
			continue
		}
		if occupant := b.At(targetPos); occupant != nil && occupant.Color != p.Color {
			moves = append(moves, targetPos)
		}
	}
	single := p.Position.offset(Position{Rank: fwd})
	if !boundaryCheck(single) || b.At(single) != nil {
		return moves
	}
	moves = append(moves, single)
	double := single.offset(Position{Rank: fwd})
	if p.MoveCount == 0 && boundaryCheck(double) && b.At(double) == nil {
		moves = append(moves, double)
	}
	return moves
}

func (p *Piece) clone() *Piece {
	c := *p
	return &c
}

var symbols = map[Color]map[PieceType]string{
	White: {King: "♔", Queen: "♕", Rook: "♖", Bishop: "♗", Knight: "♘", Pawn: "♙"},
	Black: {King: "♚", Queen: "♛", Rook: "♜", Bishop: "♝", Knight: "♞", Pawn: "♟"},
}

// Symbol is the display glyph for the piece.
func (p *Piece) Symbol() string {
	return symbols[p.Color][p.Type]
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Color, p.Type, p.Position)
}
