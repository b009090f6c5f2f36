package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/inkpress/inkpress/internal/pkg/storage"
)

// HandleCreateUploadSession issues a direct-to-storage upload session.
// Request: JSON { "content_type": string }
// Response: { upload_url, blob_key, expires_at }
//
// The client PUTs the image bytes to upload_url and then references blob_key
// when creating or updating a post.
func HandleCreateUploadSession(c *fiber.Ctx) error {
	var req struct {
		ContentType string `json:"content_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid request body"})
	}
	if req.ContentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "content_type missing"})
	}

	key := storage.NewCoverKey(req.ContentType)
	uploadURL, err := appBlobs.GenerateUploadURL(c.Context(), key, req.ContentType)
	if err != nil {
		fiberlog.Errorf("failed to create upload session: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upload_failed", "message": "failed to create upload session"})
	}

	return c.JSON(fiber.Map{
		"upload_url": uploadURL,
		"blob_key":   key,
		"expires_at": time.Now().Add(storage.UploadURLTTL).Unix(),
	})
}
