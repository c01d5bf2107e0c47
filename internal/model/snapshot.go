package model

import (
	"errors"
	"fmt"
)

const SnapshotVersion = 1

// ErrInvalidSnapshot is returned when restore data fails validation. No
// game or board is built from data that returns it.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

type PieceState struct {
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	Rank      int       `json:"rank"`
	File      int       `json:"file"`
	MoveCount int       `json:"moveCount"`
}

// GameSnapshot is the versioned persisted form of a Game.
type GameSnapshot struct {
	Version int          `json:"version"`
	ID      string       `json:"id"`
	Pieces  []PieceState `json:"pieces"`
	Players []Player     `json:"players"`
	Turn    Color        `json:"turn"`
	Winner  *Color       `json:"winner,omitempty"`
	History []Ply        `json:"history,omitempty"`
}

func SnapshotBoard(b *Board) []PieceState {
	pieces := []PieceState{}
	for _, c := range []Color{White, Black} {
		for _, p := range b.Pieces(c) {
			pieces = append(pieces, PieceState{
				Type:      p.Type,
				Color:     p.Color,
				Rank:      p.Position.Rank,
				File:      p.Position.File,
				MoveCount: p.MoveCount,
			})
		}
	}
	return pieces
}

// RestoreBoard rebuilds a board, rejecting out-of-range squares, unknown
// kinds or colors, negative move counts, doubly occupied squares and any
// color without exactly one king.
func RestoreBoard(pieces []PieceState) (*Board, error) {
	board := NewEmptyBoard()
	kings := map[Color]int{}
	for i, ps := range pieces {
		pos := Position{Rank: ps.Rank, File: ps.File}
		switch {
		case !ps.Type.Valid():
			return nil, fmt.Errorf("%w: piece %d has unknown type %q", ErrInvalidSnapshot, i, ps.Type)
		case !ps.Color.Valid():
			return nil, fmt.Errorf("%w: piece %d has unknown color %q", ErrInvalidSnapshot, i, ps.Color)
		case !pos.InBounds():
			return nil, fmt.Errorf("%w: piece %d is off the board at %d,%d", ErrInvalidSnapshot, i, ps.Rank, ps.File)
		case ps.MoveCount < 0:
			return nil, fmt.Errorf("%w: piece %d has negative move count", ErrInvalidSnapshot, i)
		case board.At(pos) != nil:
			return nil, fmt.Errorf("%w: square %s occupied twice", ErrInvalidSnapshot, pos)
		}
		if ps.Type == King {
			kings[ps.Color]++
		}
		board.Place(&Piece{Type: ps.Type, Color: ps.Color, Position: pos, MoveCount: ps.MoveCount})
	}
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return nil, fmt.Errorf("%w: %s has %d kings", ErrInvalidSnapshot, c, kings[c])
		}
	}
	return board, nil
}

func (g *Game) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := []Player{}
	for _, p := range []*Player{g.white, g.black} {
		if p != nil {
			players = append(players, *p)
		}
	}
	return GameSnapshot{
		Version: SnapshotVersion,
		ID:      g.ID,
		Pieces:  SnapshotBoard(g.board),
		Players: players,
		Turn:    g.toMove,
		Winner:  g.winner,
		History: append([]Ply{}, g.history...),
	}
}

// RestoreGame validates s and builds a live game from it.
func RestoreGame(s GameSnapshot) (*Game, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: missing game id", ErrInvalidSnapshot)
	}
	if !s.Turn.Valid() {
		return nil, fmt.Errorf("%w: unknown turn %q", ErrInvalidSnapshot, s.Turn)
	}
	if s.Winner != nil && !s.Winner.Valid() {
		return nil, fmt.Errorf("%w: unknown winner %q", ErrInvalidSnapshot, *s.Winner)
	}
	if len(s.Players) > 2 {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidSnapshot, len(s.Players))
	}
	seen := map[Color]bool{}
	for _, p := range s.Players {
		if !p.Color.Valid() || seen[p.Color] || p.ID == "" {
			return nil, fmt.Errorf("%w: bad player %+v", ErrInvalidSnapshot, p)
		}
		seen[p.Color] = true
	}
	board, err := RestoreBoard(s.Pieces)
	if err != nil {
		return nil, err
	}

	g := NewGameFromBoard(s.ID, board, s.Turn)
	for _, p := range s.Players {
		player := p
		if player.Color == White {
			g.white = &player
		} else {
			g.black = &player
		}
	}
	if s.Winner != nil {
		winner := *s.Winner
		g.winner = &winner
	}
	g.history = append(g.history, s.History...)
	if n := len(g.history); n > 0 {
		last := Move{From: g.history[n-1].From, To: g.history[n-1].To}
		g.lastMove = &last
	}
	return g, nil
}
