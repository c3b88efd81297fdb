package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/blog/api/http/handlers"
	"github.com/artem13815/blog/api/http/presenter"
	"github.com/artem13815/blog/pkg/security/jwt"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Posts      *handlers.PostHandler
	Categories *handlers.CategoryHandler
	Health     *handlers.HealthHandler
	// Docs serves the API docs under /swagger/*; nil disables them.
	Docs fiber.Handler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, tokens *jwt.Validator) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", h.Health.Health)
	if h.Docs != nil {
		app.Get("/swagger/*", h.Docs)
	}

	api := app.Group("/api")
	api.Get("/health", h.Health.Health)
	api.Get("/ready", h.Health.Ready)

	authn := jwt.Authenticate(tokens)
	admin := jwt.RequireAdmin()

	a := api.Group("/auth")
	a.Post("/login", h.Auth.Login)
	a.Get("/me", authn, h.Auth.Me)
	a.Put("/profile", authn, h.Auth.UpdateProfile)
	a.Put("/password", authn, h.Auth.ChangePassword)
	a.Post("/logout", authn, h.Auth.Logout)

	p := api.Group("/posts")
	p.Get("/", h.Posts.List)
	p.Get("/slug/:slug", h.Posts.GetBySlug)
	p.Get("/:id<int>", h.Posts.Get)
	p.Post("/", authn, admin, h.Posts.Create)
	p.Put("/:id<int>", authn, admin, h.Posts.Update)
	p.Delete("/:id<int>", authn, admin, h.Posts.Delete)
	p.Patch("/:id<int>/publish", authn, admin, h.Posts.Publish)
	p.Patch("/:id<int>/unpublish", authn, admin, h.Posts.Unpublish)

	c := api.Group("/categories")
	c.Get("/", h.Categories.List)
	c.Get("/:id<int>", h.Categories.Get)
	c.Post("/", authn, admin, h.Categories.Create)
	c.Put("/:id<int>", authn, admin, h.Categories.Update)
	c.Delete("/:id<int>", authn, admin, h.Categories.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return presenter.Error(c, http.StatusNotFound, "Route not found")
	})
}
