package model

import (
	"fmt"

	"github.com/notnil/chess"
)

var fromChessType = map[chess.PieceType]PieceType{
	chess.King: King, chess.Queen: Queen, chess.Rook: Rook,
	chess.Bishop: Bishop, chess.Knight: Knight, chess.Pawn: Pawn,
}

var chessPieces = map[Color]map[PieceType]chess.Piece{
	White: {
		King: chess.WhiteKing, Queen: chess.WhiteQueen, Rook: chess.WhiteRook,
		Bishop: chess.WhiteBishop, Knight: chess.WhiteKnight, Pawn: chess.WhitePawn,
	},
	Black: {
		King: chess.BlackKing, Queen: chess.BlackQueen, Rook: chess.BlackRook,
		Bishop: chess.BlackBishop, Knight: chess.BlackKnight, Pawn: chess.BlackPawn,
	},
}

func toSquare(p Position) chess.Square {
	return chess.Square(p.Rank*8 + p.File)
}

// DecodeFEN builds a board and side to move from a FEN record. Castling,
// en passant and clock fields are accepted but ignored. FEN carries no
// move history, so a pawn off its home rank is given a MoveCount of 1 and
// everything else starts at 0.
func DecodeFEN(fen string) (*Board, Color, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, "", fmt.Errorf("parse fen: %w", err)
	}

	board := NewEmptyBoard()
	for sq, cp := range pos.Board().SquareMap() {
		t, ok := fromChessType[cp.Type()]
		if !ok {
			return nil, "", fmt.Errorf("parse fen: unknown piece on %s", sq)
		}
		c := White
		if cp.Color() == chess.Black {
			c = Black
		}
		p := NewPiece(t, c, Position{Rank: int(sq.Rank()), File: int(sq.File())})
		if t == Pawn && p.Position.Rank != pawnHomeRank(c) {
			p.MoveCount = 1
		}
		board.Place(p)
	}

	toMove := White
	if pos.Turn() == chess.Black {
		toMove = Black
	}
	return board, toMove, nil
}

func pawnHomeRank(c Color) int {
	if c == White {
		return 1
	}
	return 6
}

// EncodeFEN writes b as a FEN record. Castling and en passant are always
// "-" since neither exists in this rule set.
func EncodeFEN(b *Board, toMove Color) string {
	squares := make(map[chess.Square]chess.Piece)
	for _, c := range []Color{White, Black} {
		for _, p := range b.Pieces(c) {
			squares[toSquare(p.Position)] = chessPieces[c][p.Type]
		}
	}
	turn := "w"
	if toMove == Black {
		turn = "b"
	}
	return fmt.Sprintf("%s %s - - 0 1", chess.NewBoard(squares).String(), turn)
}
