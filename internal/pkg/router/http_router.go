package router

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/app/actions"
	"github.com/inkpress/inkpress/app/controllers"
	"github.com/inkpress/inkpress/app/repository"
	"github.com/inkpress/inkpress/internal/pkg/cache"
	"github.com/inkpress/inkpress/internal/pkg/database"
	"github.com/inkpress/inkpress/internal/pkg/env"
	"github.com/inkpress/inkpress/internal/pkg/middleware"
	"github.com/inkpress/inkpress/internal/pkg/realtime"
	"github.com/inkpress/inkpress/internal/pkg/session"
	"github.com/inkpress/inkpress/internal/pkg/storage"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App, cfg *env.Config) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the shared action layer: repositories, blob storage, listing
	// cache, and the live subscription hub.
	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	blobs, err := storage.NewS3BlobStore(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize blob storage: %v", err))
	}

	hub := realtime.NewHub()
	act := actions.New(repos.Post, repos.Comment, repos.Reaction, blobs, cache.Listing{}, hub)
	controllers.Initialize(act, hub, blobs)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Auth
	app.Get("/login", controllers.HandleLoginInfo)
	app.Post("/login", controllers.HandleAuthLogin)
	app.Post("/register", controllers.HandleAuthRegister)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Account
	app.Get("/user/profile", middleware.RequireAuth, controllers.HandleGetUserAccount)

	// Live subscriptions
	app.Get("/ws/live", controllers.HandleLiveUpgrade, controllers.HandleLiveSocket)
}
