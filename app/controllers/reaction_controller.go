package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/app/actions"
)

// HandleReactionCounts returns the per-kind reaction totals of a post.
func HandleReactionCounts(c *fiber.Ctx) error {
	counts, actionErr := getActions().GetReactionCounts(c.Context(), c.Params("uuid"))
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.JSON(fiber.Map{"reactions": counts})
}

// HandleReactionSet records the caller's reaction on a post. Reacting again
// with a different kind replaces the previous one.
func HandleReactionSet(c *fiber.Ctx) error {
	var req struct {
		Kind string `json:"kind" form:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid request body"})
	}

	input := actions.SetReactionInput{
		PostUUID: c.Params("uuid"),
		Kind:     req.Kind,
	}
	if actionErr := getActions().SetReaction(c.Context(), identityFromContext(c), input); actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
