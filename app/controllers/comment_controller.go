package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/app/actions"
)

// HandleCommentList returns the comments of a post, newest first.
func HandleCommentList(c *fiber.Ctx) error {
	views, actionErr := getActions().ListComments(c.Context(), c.Params("uuid"))
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.JSON(fiber.Map{"comments": views})
}

// HandleCommentCreate adds an immutable comment under a post.
func HandleCommentCreate(c *fiber.Ctx) error {
	var req struct {
		Body string `json:"body" form:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid request body"})
	}

	input := actions.CreateCommentInput{
		PostUUID: c.Params("uuid"),
		Body:     req.Body,
	}
	if actionErr := getActions().CreateComment(c.Context(), identityFromContext(c), input); actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.SendStatus(fiber.StatusCreated)
}
