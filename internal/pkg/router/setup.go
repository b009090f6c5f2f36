package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/internal/pkg/env"
)

// Router is one installable route group.
type Router interface {
	InstallRouter(app *fiber.App, cfg *env.Config)
}

func InstallRouter(app *fiber.App, cfg *env.Config) {
	// Install HttpRouter first to initialize the session store, the shared
	// action layer, and the global UserContext middleware. Then register API
	// routes which depend on that middleware.
	setup(app, cfg, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, cfg *env.Config, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app, cfg)
	}
}
