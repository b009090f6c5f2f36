package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/inkpress/inkpress/app/controllers"
	"github.com/inkpress/inkpress/internal/pkg/env"
	"github.com/inkpress/inkpress/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App, _ *env.Config) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Public reads
	v1.Get("/posts", controllers.HandlePostList)
	v1.Get("/posts/search", controllers.HandlePostSearch)
	v1.Get("/posts/:uuid", controllers.HandlePostGet)
	v1.Get("/posts/:uuid/comments", middleware.RequireAPIAuth, controllers.HandleCommentList)
	v1.Get("/posts/:uuid/reactions", controllers.HandleReactionCounts)

	// Authenticated writes
	v1.Post("/posts", middleware.RequireAPIAuth, controllers.HandlePostCreate)
	v1.Put("/posts/:uuid", middleware.RequireAPIAuth, controllers.HandlePostUpdate)
	v1.Post("/posts/:uuid/comments", middleware.RequireAPIAuth, controllers.HandleCommentCreate)
	v1.Put("/posts/:uuid/reactions", middleware.RequireAPIAuth, controllers.HandleReactionSet)
	v1.Post("/upload/sessions", middleware.RequireAPIAuth, controllers.HandleCreateUploadSession)

	// Account
	v1.Get("/user/me", middleware.RequireAPIAuth, controllers.HandleGetUserAccount)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
