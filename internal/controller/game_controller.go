package controller

import (
	"log/slog"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
	log         *slog.Logger
}

func NewGameController(gameService *service.GameService, log *slog.Logger) *GameController {
	return &GameController{gameService: gameService, log: log}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
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

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), move); err != nil {
		return sendError(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Resign(gameID, middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) PGN(c *fiber.Ctx) error {
	text, err := gc.gameService.PGN(c.Params("gameId"))
	if err != nil {
		gc.log.Error("export pgn", "game", c.Params("gameId"), "err", err)
		return sendError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/x-chess-pgn")
	return c.SendString(text)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}
