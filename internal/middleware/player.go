package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PlayerIDKey is the fiber.Ctx local holding the caller's player ID.
const PlayerIDKey = "playerID"

// EnsurePlayerID takes the player ID from the X-Player-ID header or the
// playerId query parameter and rejects requests that carry neither.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDKey) != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// header and query values alias the request buffer, which fiber
		// reuses; the ID outlives the request as a seat in a game
		c.Locals(PlayerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the ID stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
