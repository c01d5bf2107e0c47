// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/bot"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/storage"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists")
	ErrNoStore         = errors.New("no storage configured")
	ErrNotComputerTurn = errors.New("side to move is not a computer")
)

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

type GameManager struct {
	games            map[string]*model.Game
	bots             map[string]bot.ChessBot
	queue            *model.Queue
	matchingChannels map[string]chan string
	store            *storage.Store
	seed             uint64
	mu               sync.RWMutex
}

// NewGameManager creates a manager. store may be nil, in which case saving
// and loading fail with ErrNoStore. seed feeds the computer opponents;
// each game gets its own derived seed.
func NewGameManager(store *storage.Store, seed uint64) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		bots:             make(map[string]bot.ChessBot),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		store:            store,
		seed:             seed,
	}
}

// RunMatchmaking pairs queued players once a second until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID)
		p1Color, err := game.AddPlayer(player1.PlayerID, player1.Name, false)
		if err != nil {
			log.Errorf("matchmaking: add player %s: %v", player1.PlayerID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.PlayerID, player2.Name, false)
		if err != nil {
			log.Errorf("matchmaking: add player %s: %v", player2.PlayerID, err)
			continue
		}
		gm.games[gameID] = game
		log.Infof("matchmaking: game %s for %s and %s", gameID, player1.PlayerID, player2.PlayerID)

		if !gm.sendMatchFound(player1.PlayerID, MatchFoundEvent{GameID: gameID, Color: p1Color}) ||
			!gm.sendMatchFound(player2.PlayerID, MatchFoundEvent{GameID: gameID, Color: p2Color}) {
			log.Warnf("matchmaking: failed to notify all players of game %s", gameID)
		}
	}
}

// sendMatchFound delivers event and closes the player's channel. The
// caller holds gm.mu.
func (gm *GameManager) sendMatchFound(playerID string, event MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("matchmaking: marshal event: %v", err)
		return false
	}
	select {
	case ch <- string(data):
		delete(gm.matchingChannels, playerID)
		close(ch)
		return true
	default:
		return false
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// the channel's creator closes it
	delete(gm.matchingChannels, playerID)
	gm.queue.Remove(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID, name string) error {
	return gm.queue.AddPlayer(playerID, name)
}

// AddGame registers game, attaching a bot when botName is non-empty.
func (gm *GameManager) AddGame(game *model.Game, botName string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return ErrGameExists
	}
	gm.games[game.ID] = game
	if botName != "" {
		gm.bots[game.ID] = bot.New(botName, gm.seed+uint64(len(gm.bots)))
	}
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) botFor(gameID string) (bot.ChessBot, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	b, ok := gm.bots[gameID]
	return b, ok
}

func (gm *GameManager) AddPlayerToGame(gameID, playerID, name string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID, name, false)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove plays a human move and, when the other side is a computer,
// its reply. A failed reply is logged and leaves the computer to move; the
// human move still stands.
func (gm *GameManager) MakeMove(gameID, playerID string, move model.Move) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	if p, ok := game.PlayerToMove(); ok && p.Computer && !game.IsOver() {
		if _, err := gm.ComputerMove(gameID); err != nil {
			log.Errorf("game %s: computer reply: %v", gameID, err)
		}
	}
	return nil
}

// ComputerMove lets the game's bot play for the side to move.
func (gm *GameManager) ComputerMove(gameID string) (model.Move, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Move{}, err
	}
	if game.IsOver() {
		return model.Move{}, model.ErrGameOver
	}
	player, ok := game.PlayerToMove()
	if !ok || !player.Computer {
		return model.Move{}, ErrNotComputerTurn
	}
	b, ok := gm.botFor(gameID)
	if !ok {
		return model.Move{}, ErrNotComputerTurn
	}

	start := time.Now()
	move, ok := b.BestMove(game.Board(), player.Color)
	if !ok {
		return model.Move{}, fmt.Errorf("%w: %s has no legal move", model.ErrInvalidMove, player.Color)
	}
	log.Debugf("game %s: %s chose %s in %s", gameID, b.Name(), move, time.Since(start))
	return move, game.MakeMove(player.ID, move)
}

func (gm *GameManager) SaveGame(gameID string) error {
	if gm.store == nil {
		return ErrNoStore
	}
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return gm.store.Save(game.Snapshot())
}

// LoadGame restores a saved game and makes it live, replacing any live
// game with the same ID.
func (gm *GameManager) LoadGame(gameID, botName string) (*model.Game, error) {
	if gm.store == nil {
		return nil, ErrNoStore
	}
	snap, err := gm.store.Load(gameID)
	if err != nil {
		return nil, err
	}
	game, err := model.RestoreGame(snap)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[game.ID] = game
	delete(gm.bots, game.ID)
	for _, p := range snap.Players {
		if p.Computer {
			gm.bots[game.ID] = bot.New(botName, gm.seed+uint64(len(gm.bots)))
			break
		}
	}
	return game, nil
}

func (gm *GameManager) DeleteSave(gameID string) error {
	if gm.store == nil {
		return ErrNoStore
	}
	return gm.store.Delete(gameID)
}

func (gm *GameManager) SavedGames() ([]string, error) {
	if gm.store == nil {
		return nil, ErrNoStore
	}
	return gm.store.List()
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn model.StateSender) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}
