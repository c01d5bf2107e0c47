package service

import (
	"fmt"
	"io"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/render"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	OpponentHuman    = "human"
	OpponentComputer = "computer"
)

// CreateOptions describes a new game.
type CreateOptions struct {
	// Opponent is OpponentHuman (default) or OpponentComputer.
	Opponent string `json:"opponent"`
	// Bot names the computer opponent, "greedy" (default) or "random".
	Bot  string `json:"bot"`
	Name string `json:"name"`
	// FEN optionally sets up a custom starting position.
	FEN string `json:"fen"`
}

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a game and seats the creator as white. Against the
// computer, the bot takes black.
func (gs *GameService) CreateGame(playerID string, opts CreateOptions) (string, model.Color, error) {
	gameID := uuid.New().String()

	game := model.NewGame(gameID)
	if opts.FEN != "" {
		board, toMove, err := model.DecodeFEN(opts.FEN)
		if err != nil {
			return "", "", err
		}
		// same checks a restored snapshot gets
		if board, err = model.RestoreBoard(model.SnapshotBoard(board)); err != nil {
			return "", "", err
		}
		game = model.NewGameFromBoard(gameID, board, toMove)
	}

	color, err := game.AddPlayer(playerID, opts.Name, false)
	if err != nil {
		return "", "", err
	}

	botName := ""
	if opts.Opponent == OpponentComputer {
		botName = opts.Bot
		if botName == "" {
			botName = "greedy"
		}
		if _, err := game.AddPlayer(uuid.New().String(), "Computer", true); err != nil {
			return "", "", err
		}
	}

	if err := gs.gameManager.AddGame(game, botName); err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("created game %s (opponent %q)", gameID, opts.Opponent)

	// a custom position may hand the first move to the computer
	if p, ok := game.PlayerToMove(); ok && p.Computer && !game.IsOver() {
		if _, err := gs.gameManager.ComputerMove(gameID); err != nil {
			return "", "", err
		}
	}
	return gameID, color, nil
}

func (gs *GameService) JoinGame(gameID, playerID, name string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID, name)
}

func (gs *GameService) JoinMatchmaking(playerID, name string) error {
	return gs.gameManager.JoinMatchmaking(playerID, name)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func parseSquare(square string) (model.Position, error) {
	pos, err := model.ParseSquare(square)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", model.ErrInvalidMove, err)
	}
	return pos, nil
}

func (gs *GameService) ValidMoves(gameID, square string) ([]model.Position, error) {
	pos, err := parseSquare(square)
	if err != nil {
		return nil, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.ValidMoves(pos), nil
}

func (gs *GameService) Select(gameID, playerID, square string) ([]model.Position, error) {
	pos, err := parseSquare(square)
	if err != nil {
		return nil, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Select(playerID, pos)
}

// Deselect clears the highlight overlay for a seated player.
func (gs *GameService) Deselect(gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if !game.IsPlayerInGame(playerID) {
		return model.ErrNotInGame
	}
	game.ClearSelection()
	return nil
}

func (gs *GameService) HandleMove(gameID, playerID, from, to string) error {
	start, err := parseSquare(from)
	if err != nil {
		return err
	}
	end, err := parseSquare(to)
	if err != nil {
		return err
	}
	return gs.gameManager.MakeMove(gameID, playerID, model.Move{From: start, To: end})
}

func (gs *GameService) ComputerMove(gameID string) (model.Move, error) {
	return gs.gameManager.ComputerMove(gameID)
}

func (gs *GameService) SaveGame(gameID string) error {
	return gs.gameManager.SaveGame(gameID)
}

func (gs *GameService) LoadGame(gameID, botName string) (model.GameState, error) {
	game, err := gs.gameManager.LoadGame(gameID, botName)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) DeleteSave(gameID string) error {
	return gs.gameManager.DeleteSave(gameID)
}

func (gs *GameService) SavedGames() ([]string, error) {
	return gs.gameManager.SavedGames()
}

// RenderBoard writes the game's board as SVG, tinting the current
// selection's legal moves.
func (gs *GameService) RenderBoard(gameID string, w io.Writer) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	state := game.GetState()
	render.SVG(w, game.Board(), state.LegalMoves)
	return nil
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.StateSender) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
