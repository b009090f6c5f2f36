package controllers

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/app/actions"
	"github.com/inkpress/inkpress/internal/pkg/realtime"
	"github.com/inkpress/inkpress/internal/pkg/storage"
	"github.com/inkpress/inkpress/internal/pkg/usercontext"
)

var (
	appActions *actions.Actions
	appHub     *realtime.Hub
	appBlobs   storage.BlobStore
)

// Initialize wires the shared collaborators into the controller layer. Called
// once during router installation, before any route handler runs.
func Initialize(act *actions.Actions, hub *realtime.Hub, blobs storage.BlobStore) {
	appActions = act
	appHub = hub
	appBlobs = blobs
}

func getActions() *actions.Actions {
	if appActions == nil {
		panic("Controllers not initialized. Call controllers.Initialize first.")
	}
	return appActions
}

// identityFromContext builds the trusted caller identity out of the resolved
// session context. Handlers behind the auth middlewares never see a zero id.
func identityFromContext(c *fiber.Ctx) actions.Identity {
	user := usercontext.GetUserContext(c)
	return actions.Identity{
		UserID: user.UserID,
		Email:  user.Email,
	}
}

// statusForAction maps an action failure kind to its HTTP status.
func statusForAction(kind actions.Kind) int {
	switch kind {
	case actions.KindValidationFailed:
		return fiber.StatusUnprocessableEntity
	case actions.KindUploadFailed:
		return fiber.StatusBadGateway
	case actions.KindNotFound:
		return fiber.StatusNotFound
	case actions.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func respondActionError(c *fiber.Ctx, actionErr *actions.ActionError) error {
	return c.Status(statusForAction(actionErr.Kind)).JSON(fiber.Map{
		"error":   string(actionErr.Kind),
		"message": actionErr.Message,
	})
}

// readUpload pulls an optional multipart file out of the request. An absent
// field is not an error; the action layer decides whether an image is required.
func readUpload(c *fiber.Ctx, field string) (*actions.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &actions.Upload{
		Content:     content,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
