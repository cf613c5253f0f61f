package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/event-service/internal/api/http/handlers"
	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Venues         *handlers.VenuesHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The auth middleware runs on every
// request; routes on its public list pass through untouched, everything
// else gets a resolved principal before the role guards run.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
			cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/signup", cfg.Users.Signup)
	users.Post("/signin", cfg.Users.Signin)
	users.Get("/me", auth.RequireAuthenticated(), cfg.Users.Me)
	users.Patch("/me", auth.RequireAuthenticated(), cfg.Users.UpdateProfile)
	users.Get("/me/liked-events", auth.RequireAuthenticated(), cfg.Users.LikedEvents)
	users.Post("/me/liked-events/:eventID", auth.RequireAuthenticated(), cfg.Users.LikeEvent)
	users.Delete("/me/liked-events/:eventID", auth.RequireAuthenticated(), cfg.Users.UnlikeEvent)
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)

	events := api.Group("/events")
	events.Get("/", cfg.Events.List)
	events.Get("/:id", cfg.Events.Get)
	events.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Events.Create)
	events.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Events.Update)
	events.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Events.Delete)

	venues := api.Group("/venues")
	venues.Get("/", auth.RequireRole(domain.RoleUser), cfg.Venues.List)
	venues.Get("/:id", auth.RequireRole(domain.RoleUser), cfg.Venues.Get)
	venues.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Venues.Create)
	venues.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Venues.Update)
	venues.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Venues.Delete)

	bookings := api.Group("/bookings", auth.RequireAuthenticated())
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Get("/", cfg.Bookings.List)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Post("/:id/cancel", cfg.Bookings.Cancel)
}
