package model

import (
	"errors"
	"reflect"
	"testing"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

func mustFEN(t *testing.T, fen string) (*Board, Color) {
	t.Helper()
	b, toMove, err := DecodeFEN(fen)
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	return b, toMove
}

func TestInitialPosition(t *testing.T) {
	b := NewBoard()
	if n := len(b.Pieces(White)); n != 16 {
		t.Fatalf("white has %d pieces, want 16", n)
	}
	if n := len(b.Pieces(Black)); n != 16 {
		t.Fatalf("black has %d pieces, want 16", n)
	}
	if s := b.Score(White); s != 0 {
		t.Fatalf("white score = %d, want 0", s)
	}
	if s := b.Score(Black); s != 0 {
		t.Fatalf("black score = %d, want 0", s)
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			pos := Position{Rank: rank, File: file}
			if p := b.At(pos); p != nil && p.Position != pos {
				t.Fatalf("piece on %s thinks it is on %s", pos, p.Position)
			}
		}
	}
	if b.InCheck(White) || b.InCheck(Black) {
		t.Fatal("nobody is in check at the start")
	}
	if b.Checkmate(White) || b.Checkmate(Black) {
		t.Fatal("nobody is mated at the start")
	}
}

func TestScoreCountsMaterial(t *testing.T) {
	b, _ := mustFEN(t, "4k3/8/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	// 8 pawns + 2 knights + 2 bishops + 2 rooks + queen
	if s := b.Score(White); s != 39 {
		t.Fatalf("white score = %d, want 39", s)
	}
	if s := b.Score(Black); s != -39 {
		t.Fatalf("black score = %d, want -39", s)
	}
}

func TestInCheckSingleAttacker(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"knight gives check", "4k3/8/8/8/8/5n2/8/4K3 w - - 0 1", true},
		{"knight misses", "4k3/8/8/8/5n2/8/8/4K3 w - - 0 1", false},
		{"bishop gives check", "4k3/8/8/b7/8/8/8/4K3 w - - 0 1", true},
		{"bishop blocked", "4k3/8/8/b7/8/2P5/8/4K3 w - - 0 1", false},
		{"pawn gives check", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", true},
		{"pawn in front does not", "4k3/8/8/8/8/8/4p3/4K3 w - - 0 1", false},
		{"rook along the rank", "4k3/8/8/8/8/8/8/r3K3 w - - 0 1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustFEN(t, tt.fen)
			if got := b.InCheck(White); got != tt.want {
				t.Log(b)
				t.Fatalf("InCheck(white) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRookCheckAlongRank(t *testing.T) {
	b := NewEmptyBoard()
	b.Place(NewPiece(King, White, mustSquare(t, "b1")))
	b.Place(NewPiece(Rook, Black, mustSquare(t, "h1")))
	b.Place(NewPiece(King, Black, mustSquare(t, "h8")))

	if !b.InCheck(White) {
		t.Fatal("expected white to be in check")
	}
	moves := b.ValidMoves(mustSquare(t, "b1"))
	sameSquares(t, moves, "a2", "b2", "c2")

	if err := b.Move(mustSquare(t, "b1"), mustSquare(t, "b2")); err != nil {
		t.Fatal(err)
	}
	if b.InCheck(White) {
		t.Fatal("stepping off the rank should break the check")
	}
}

func TestValidMovesFiltersPins(t *testing.T) {
	b, _ := mustFEN(t, "4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1")
	rook := mustSquare(t, "e2")
	sameSquares(t, b.ValidMoves(rook), "e3", "e4", "e5", "e6", "e7", "e8")
	if len(b.At(rook).Moves(b)) != 13 {
		t.Fatalf("pinned rook should still have 13 pseudo-legal moves, got %d", len(b.At(rook).Moves(b)))
	}
}

func TestValidMovesOfEmptySquare(t *testing.T) {
	if moves := NewBoard().ValidMoves(mustSquare(t, "e4")); len(moves) != 0 {
		t.Fatalf("got %v for an empty square", moves)
	}
}

// Legal moves are always a subset of pseudo-legal moves, checked over
// random games.
func TestValidMovesSubsetOfMoves(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 5; game++ {
		b := NewBoard()
		toMove := White
		for ply := 0; ply < 60 && !b.Checkmate(toMove); ply++ {
			all := []Move{}
			for _, p := range b.Pieces(toMove) {
				pseudo := p.Moves(b)
				for _, to := range b.ValidMoves(p.Position) {
					if !slices.Contains(pseudo, to) {
						t.Fatalf("%s: legal move to %s is not pseudo-legal", p, to)
					}
					all = append(all, Move{From: p.Position, To: to})
				}
			}
			m := all[rng.Intn(len(all))]
			if err := b.Move(m.From, m.To); err != nil {
				t.Fatal(err)
			}
			if b.InCheck(toMove) {
				t.Fatalf("%s left its own king in check with %s", toMove, m)
			}
			toMove = toMove.Opponent()
		}
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	t.Run("back rank mate", func(t *testing.T) {
		b, _ := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
		if !b.InCheck(Black) {
			t.Fatal("black should be in check")
		}
		if !b.Checkmate(Black) {
			t.Fatal("expected checkmate")
		}
		if b.Checkmate(White) {
			t.Fatal("white has moves")
		}
	})
	t.Run("stalemate counts as checkmate", func(t *testing.T) {
		b, _ := mustFEN(t, "k1K5/8/1Q6/8/8/8/8/8 b - - 0 1")
		if b.InCheck(Black) {
			t.Fatal("black is not attacked")
		}
		if !b.Checkmate(Black) {
			t.Fatal("a side without legal moves is reported as checkmated")
		}
	})
	t.Run("king can take the checker", func(t *testing.T) {
		b, _ := mustFEN(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")
		if b.Checkmate(Black) {
			t.Fatal("Kxg8 is available")
		}
	})
}

func TestMoveExecution(t *testing.T) {
	b, _ := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	from, to := mustSquare(t, "e4"), mustSquare(t, "d5")
	pawn := b.At(from)
	before := pawn.MoveCount

	if err := b.Move(from, to); err != nil {
		t.Fatal(err)
	}
	if b.At(from) != nil {
		t.Fatal("origin should be empty")
	}
	if b.At(to) != pawn || pawn.Position != to {
		t.Fatal("pawn should be on d5")
	}
	if pawn.MoveCount != before+1 {
		t.Fatalf("move count = %d, want %d", pawn.MoveCount, before+1)
	}
	if len(b.Pieces(Black)) != 1 {
		t.Fatal("black pawn should have been captured")
	}
}

func TestInvalidMoveLeavesBoardUntouched(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"empty source", "e4", "e5"},
		{"not a legal destination", "e2", "e5"},
		{"blocked", "a1", "a3"},
		{"friendly capture", "d1", "d2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			before := SnapshotBoard(b)
			err := b.Move(mustSquare(t, tt.from), mustSquare(t, tt.to))
			if !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("got %v, want ErrInvalidMove", err)
			}
			if !reflect.DeepEqual(before, SnapshotBoard(b)) {
				t.Fatal("board changed after a failed move")
			}
		})
	}
}

func TestMoveIntoCheckRejected(t *testing.T) {
	b, _ := mustFEN(t, "4k3/8/8/8/8/8/8/r3K3 w - - 0 1")
	err := b.Move(mustSquare(t, "e1"), mustSquare(t, "d1"))
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("got %v, want ErrInvalidMove", err)
	}
}

func TestApplyUndoRestores(t *testing.T) {
	b, _ := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	before := SnapshotBoard(b)
	u := b.Apply(mustSquare(t, "e4"), mustSquare(t, "d5"))
	if reflect.DeepEqual(before, SnapshotBoard(b)) {
		t.Fatal("apply did nothing")
	}
	b.Undo(u)
	if !reflect.DeepEqual(before, SnapshotBoard(b)) {
		t.Fatal("undo did not restore the board")
	}
}

func TestQueriesDoNotMutate(t *testing.T) {
	b, _ := mustFEN(t, "r3k2r/ppp2ppp/2n5/3qp3/3P4/2N2N2/PPP2PPP/R2QK2R w - - 0 1")
	before := SnapshotBoard(b)
	for _, p := range b.Pieces(White) {
		b.ValidMoves(p.Position)
	}
	b.InCheck(White)
	b.Checkmate(Black)
	if !reflect.DeepEqual(before, SnapshotBoard(b)) {
		t.Fatal("queries changed the board")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Clone()
	if err := c.Move(mustSquare(t, "e2"), mustSquare(t, "e4")); err != nil {
		t.Fatal(err)
	}
	if b.At(mustSquare(t, "e2")) == nil || b.At(mustSquare(t, "e4")) != nil {
		t.Fatal("moving on the clone changed the original")
	}
	if b.At(mustSquare(t, "e2")).MoveCount != 0 {
		t.Fatal("clone shares pieces with the original")
	}
}
