package controller

import (
	"bytes"
	"errors"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// errorStatus maps service and model errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidMove), errors.Is(err, model.ErrInvalidSnapshot):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrGameOver),
		errors.Is(err, service.ErrGameExists), errors.Is(err, service.ErrNotComputerTurn):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNoStore):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var opts service.CreateOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, color, err := gc.gameService.CreateGame(playerID, opts)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSnapshot) {
			return sendError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var body struct {
		Name string `json:"name"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	color, err := gc.gameService.JoinGame(gameID, playerID, body.Name)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) ValidMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.ValidMoves(c.Params("gameId"), c.Query("square"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": c.Query("square"),
		"moves":  moves,
	})
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var body struct {
		Square string `json:"square"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	moves, err := gc.gameService.Select(c.Params("gameId"), playerID, body.Square)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": body.Square,
		"moves":  moves,
	})
}

func (gc *GameController) Deselect(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)
	if err := gc.gameService.Deselect(c.Params("gameId"), playerID); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := gc.gameService.HandleMove(gameID, playerID, body.From, body.To); err != nil {
		return sendError(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) ComputerMove(c *fiber.Ctx) error {
	move, err := gc.gameService.ComputerMove(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"from": move.From,
		"to":   move.To,
	})
}

func (gc *GameController) SaveGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.SaveGame(gameID); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game saved",
		"game_id": gameID,
	})
}

func (gc *GameController) LoadGame(c *fiber.Ctx) error {
	gameState, err := gc.gameService.LoadGame(c.Params("gameId"), c.Query("bot"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) DeleteSave(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteSave(c.Params("gameId")); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) SavedGames(c *fiber.Ctx) error {
	ids, err := gc.gameService.SavedGames()
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"games": ids,
	})
}

func (gc *GameController) BoardSVG(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := gc.gameService.RenderBoard(c.Params("gameId"), &buf); err != nil {
		return sendError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID, utils.CopyString(c.Query("name"))); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}
