package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/inkpress/inkpress/app/actions"
)

// HandlePostList returns every post, newest first, with resolved cover URLs.
func HandlePostList(c *fiber.Ctx) error {
	views, actionErr := getActions().ListPosts(c.Context())
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.JSON(fiber.Map{"posts": views})
}

// HandlePostGet returns a single post by its public id.
func HandlePostGet(c *fiber.Ctx) error {
	uuid := c.Params("uuid")
	if uuid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "uuid missing"})
	}

	view, actionErr := getActions().GetPost(c.Context(), uuid)
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.JSON(fiber.Map{"post": view})
}

// HandlePostSearch matches the query term against titles and contents. Terms
// shorter than two characters run no query and report searched=false.
func HandlePostSearch(c *fiber.Ctx) error {
	term := c.Query("q")
	limit := c.QueryInt("limit")

	result, actionErr := getActions().SearchPosts(c.Context(), term, limit)
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.JSON(result)
}

// HandlePostCreate persists a new post from a multipart form with a mandatory
// cover image. The blob is uploaded before the record is written.
func HandlePostCreate(c *fiber.Ctx) error {
	upload, err := readUpload(c, "image")
	if err != nil {
		fiberlog.Errorf("failed to read uploaded image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "unreadable image upload"})
	}

	input := actions.CreatePostInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Image:   upload,
	}

	uuid, actionErr := getActions().CreatePost(c.Context(), identityFromContext(c), input)
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": uuid})
}

// HandlePostUpdate edits an existing post owned by the caller. A new image
// replaces the old cover; otherwise blob_key must reference the current one.
func HandlePostUpdate(c *fiber.Ctx) error {
	upload, err := readUpload(c, "image")
	if err != nil {
		fiberlog.Errorf("failed to read uploaded image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "unreadable image upload"})
	}

	input := actions.UpdatePostInput{
		UUID:    c.Params("uuid"),
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Image:   upload,
		BlobKey: c.FormValue("blob_key"),
	}

	uuid, actionErr := getActions().UpdatePost(c.Context(), identityFromContext(c), input)
	if actionErr != nil {
		return respondActionError(c, actionErr)
	}

	return c.JSON(fiber.Map{"id": uuid})
}
