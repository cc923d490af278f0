package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusOf maps service and model errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidSquare):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrNotInGame),
		errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrGameNotStarted),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, model.ErrConnectionExists),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
