package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrGameFull  = errors.New("game is full")
	ErrGameOver  = errors.New("game is over")
	ErrNotInGame = errors.New("player not in game")
)

// StateSender is a client connection that receives state pushes. Its
// WriteJSON must be safe to call from several goroutines.
type StateSender interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]StateSender // playerID -> connection
	mu          sync.RWMutex

	// sendMu orders broadcasts; sent is the sequence number of the newest
	// state delivered so far.
	sendMu sync.Mutex
	sent   uint64
}

// Game is one session: the authoritative board, both players and whose
// turn it is, plus the observers watching it.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	toMove      Color
	white       *Player
	black       *Player
	history     []Ply
	lastMove    *Move
	isCheck     bool
	winner      *Color
	selected    *Position
	highlighted []Position
	stateSeq    uint64
	connections *GameConnections
}

type GameState struct {
	ID             string         `json:"id"`
	Board          [][]*PieceView `json:"board"`
	FEN            string         `json:"fen"`
	ToMove         Color          `json:"toMove"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	Winner         *Color         `json:"winner"`
	SelectedSquare *Position      `json:"selectedSquare"`
	LegalMoves     []Position     `json:"legalMoves"`
	Score          int            `json:"score"`
	MoveHistory    []Ply          `json:"moveHistory"`
	LastMove       *Move          `json:"lastMove"`
	Players        struct {
		White *Player `json:"white"`
		Black *Player `json:"black"`
	} `json:"players"`
}

// PieceView is a grid cell as shown to clients.
type PieceView struct {
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	Symbol    string    `json:"symbol"`
	MoveCount int       `json:"moveCount"`
}

func NewGame(id string) *Game {
	return NewGameFromBoard(id, NewBoard(), White)
}

func NewGameFromBoard(id string, board *Board, toMove Color) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		toMove:      toMove,
		history:     make([]Ply, 0),
		highlighted: make([]Position, 0),
		connections: NewGameConnections(),
	}
	g.evaluate()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]StateSender),
	}
}

// AddPlayer seats a player as white, then black.
func (g *Game) AddPlayer(playerID, name string, computer bool) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.playerByID(playerID) != nil {
		return "", fmt.Errorf("player %s already seated", playerID)
	}
	if g.white == nil {
		g.white = &Player{ID: playerID, Name: name, Color: White, Computer: computer}
		return White, nil
	}
	if g.black == nil {
		g.black = &Player{ID: playerID, Name: name, Color: Black, Computer: computer}
		return Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) playerByID(playerID string) *Player {
	if g.white != nil && g.white.ID == playerID {
		return g.white
	}
	if g.black != nil && g.black.ID == playerID {
		return g.black
	}
	return nil
}

func (g *Game) playerByColor(c Color) *Player {
	if c == White {
		return g.white
	}
	return g.black
}

// PlayerToMove returns the player whose turn it is, if seated.
func (g *Game) PlayerToMove() (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByColor(g.toMove)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.playerByID(playerID) != nil
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.white == nil || g.black == nil
}

func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.toMove
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Clone()
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.winner != nil
}

func (g *Game) ValidMoves(pos Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.ValidMoves(pos)
}

// Select highlights the legal destinations of the player's piece on pos.
func (g *Game) Select(playerID string, pos Position) ([]Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player := g.playerByID(playerID)
	if player == nil {
		return nil, ErrNotInGame
	}
	piece := g.board.At(pos)
	if piece == nil {
		return nil, fmt.Errorf("%w: no piece on %s", ErrInvalidMove, pos)
	}
	if piece.Color != player.Color {
		return nil, fmt.Errorf("%w: %s does not belong to %s", ErrInvalidMove, piece, player.Color)
	}
	g.selected = &pos
	g.highlighted = g.board.ValidMoves(pos)
	g.broadcastLocked()
	return g.highlighted, nil
}

// ClearSelection drops the highlight overlay.
func (g *Game) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.selected = nil
	g.highlighted = make([]Position, 0)
	g.broadcastLocked()
}

// MakeMove plays a move for playerID. It fails with ErrInvalidMove when
// the source square is empty, holds another player's piece, it is not the
// player's turn, or the destination is not legal.
func (g *Game) MakeMove(playerID string, move Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.winner != nil {
		return ErrGameOver
	}
	player := g.playerByID(playerID)
	if player == nil {
		return ErrNotInGame
	}
	piece := g.board.At(move.From)
	if piece == nil {
		return fmt.Errorf("%w: no piece on %s", ErrInvalidMove, move.From)
	}
	if piece.Color != player.Color {
		return fmt.Errorf("%w: %s does not belong to %s", ErrInvalidMove, piece, player.Color)
	}
	if g.toMove != player.Color {
		return fmt.Errorf("%w: not %s's turn", ErrInvalidMove, player.Color)
	}

	ply := makePly(g.board, move)
	if err := g.board.Move(move.From, move.To); err != nil {
		return err
	}
	g.history = append(g.history, ply)
	g.lastMove = &move
	g.selected = nil
	g.highlighted = make([]Position, 0)
	g.switchTurn()
	g.evaluate()
	log.Debugf("game %s: %s played %s", g.ID, player.Color, ply.Notation)

	g.broadcastLocked()
	return nil
}

// evaluate refreshes check and the game result for the side to move.
func (g *Game) evaluate() {
	g.isCheck = g.board.InCheck(g.toMove)
	if g.board.Checkmate(g.toMove) {
		winner := g.toMove.Opponent()
		g.winner = &winner
	}
}

func (g *Game) switchTurn() {
	g.toMove = g.toMove.Opponent()
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() GameState {
	s := GameState{
		ID:             g.ID,
		Board:          boardView(g.board),
		FEN:            EncodeFEN(g.board, g.toMove),
		ToMove:         g.toMove,
		IsCheck:        g.isCheck,
		Winner:         g.winner,
		SelectedSquare: g.selected,
		LegalMoves:     append([]Position{}, g.highlighted...),
		Score:          g.board.Score(White),
		MoveHistory:    append([]Ply{}, g.history...),
		LastMove:       g.lastMove,
	}
	if g.winner != nil {
		result := "checkmate"
		s.Resolve = &result
	}
	s.Players.White = g.white
	s.Players.Black = g.black
	return s
}

func boardView(b *Board) [][]*PieceView {
	view := make([][]*PieceView, 8)
	for rank := 0; rank < 8; rank++ {
		view[rank] = make([]*PieceView, 8)
		for file := 0; file < 8; file++ {
			p := b.At(Position{Rank: rank, File: file})
			if p == nil {
				continue
			}
			view[rank][file] = &PieceView{Type: p.Type, Color: p.Color, Symbol: p.Symbol(), MoveCount: p.MoveCount}
		}
	}
	return view
}

func (g *Game) RegisterConnection(playerID string, conn StateSender) error {
	g.mu.Lock()
	isAuthorized := g.playerByID(playerID) != nil || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the new one
		g.connections.mu.Unlock()
		payload, _ := json.Marshal(ws.ErrorPayload{Error: "connection already exists"})
		conn.WriteJSON(ws.Message{Type: ws.MessageTypeError, Payload: payload})
		conn.Close()
		return nil
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection for player %s", g.ID, playerID)

	g.mu.Lock()
	g.broadcastLocked()
	g.mu.Unlock()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Infof("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// broadcastLocked captures the state under g.mu, numbers it, and sends it
// in the background.
func (g *Game) broadcastLocked() {
	g.stateSeq++
	go g.broadcastState(g.state(), g.stateSeq)
}

// broadcastState sends state to every connection unless a newer state has
// already gone out.
func (g *Game) broadcastState(state GameState, seq uint64) {
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()
	if seq <= g.connections.sent {
		return
	}
	g.connections.sent = seq

	g.connections.mu.RLock()
	activeConnections := make(map[string]StateSender, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	if len(activeConnections) == 0 {
		return
	}
	jsonGameState, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			delete(g.connections.connections, playerID)
			g.connections.mu.Unlock()
		}
	}
}
