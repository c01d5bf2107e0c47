package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func playMoves(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if err := b.Move(mustSquare(t, m[:2]), mustSquare(t, m[2:])); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}
}

func TestBoardSnapshotRoundTrip(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5a5", "g1f3", "c8g4")

	restored, err := RestoreBoard(SnapshotBoard(b))
	if err != nil {
		t.Fatal(err)
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			pos := Position{Rank: rank, File: file}
			want, got := b.At(pos), restored.At(pos)
			if (want == nil) != (got == nil) {
				t.Fatalf("%s: occupancy differs", pos)
			}
			if want != nil && *want != *got {
				t.Fatalf("%s: got %+v, want %+v", pos, *got, *want)
			}
		}
	}
	if restored.At(mustSquare(t, "a5")).MoveCount != 2 {
		t.Fatal("queen move count lost")
	}
}

func TestRestoreBoardRejects(t *testing.T) {
	kings := []PieceState{
		{Type: King, Color: White, Rank: 0, File: 4},
		{Type: King, Color: Black, Rank: 7, File: 4},
	}
	with := func(extra ...PieceState) []PieceState {
		return append(append([]PieceState{}, kings...), extra...)
	}
	tests := []struct {
		name   string
		pieces []PieceState
	}{
		{"missing king", kings[:1]},
		{"two kings", with(PieceState{Type: King, Color: White, Rank: 3, File: 3})},
		{"off board", with(PieceState{Type: Rook, Color: White, Rank: 8, File: 0})},
		{"unknown type", with(PieceState{Type: "archbishop", Color: White, Rank: 3, File: 3})},
		{"unknown color", with(PieceState{Type: Rook, Color: "green", Rank: 3, File: 3})},
		{"negative move count", with(PieceState{Type: Rook, Color: White, Rank: 3, File: 3, MoveCount: -1})},
		{"same square twice", with(PieceState{Type: Rook, Color: White, Rank: 0, File: 4})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RestoreBoard(tt.pieces); !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("got %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestGameSnapshotRoundTrip(t *testing.T) {
	g := NewGame("g1")
	if _, err := g.AddPlayer("alice", "Alice", false); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddPlayer("cpu", "Computer", true); err != nil {
		t.Fatal(err)
	}
	if err := g.MakeMove("alice", Move{From: mustSquare(t, "e2"), To: mustSquare(t, "e4")}); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	restored, err := RestoreGame(snap)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(g.Snapshot(), restored.Snapshot()) {
		t.Fatalf("snapshots differ:\n%+v\n%+v", g.Snapshot(), restored.Snapshot())
	}
	if restored.ToMove() != Black {
		t.Fatal("turn lost")
	}
	p, ok := restored.PlayerToMove()
	if !ok || p.ID != "cpu" || !p.Computer {
		t.Fatalf("player to move = %+v", p)
	}
	state := restored.GetState()
	if state.LastMove == nil || state.LastMove.To != mustSquare(t, "e4") {
		t.Fatal("last move not rebuilt from history")
	}
}

func TestRestoreGameRejects(t *testing.T) {
	valid := NewGame("g1").Snapshot()

	tests := []struct {
		name   string
		mutate func(s *GameSnapshot)
	}{
		{"version", func(s *GameSnapshot) { s.Version = 2 }},
		{"missing id", func(s *GameSnapshot) { s.ID = "" }},
		{"turn", func(s *GameSnapshot) { s.Turn = "red" }},
		{"duplicate colors", func(s *GameSnapshot) {
			s.Players = []Player{{ID: "a", Color: White}, {ID: "b", Color: White}}
		}},
		{"too many players", func(s *GameSnapshot) {
			s.Players = []Player{{ID: "a", Color: White}, {ID: "b", Color: Black}, {ID: "c", Color: Black}}
		}},
		{"board without white king", func(s *GameSnapshot) {
			kept := []PieceState{}
			for _, ps := range s.Pieces {
				if ps.Type != King || ps.Color != White {
					kept = append(kept, ps)
				}
			}
			s.Pieces = kept
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Pieces = append([]PieceState{}, valid.Pieces...)
			tt.mutate(&s)
			if _, err := RestoreGame(s); !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("got %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}
