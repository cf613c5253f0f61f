package auth

import "github.com/gofiber/fiber/v2"

// DefaultPublicRoutes is the centralized list of endpoints reachable
// without authentication: account creation, sign-in, public event reads,
// health probes and metrics.
var DefaultPublicRoutes = []RouteRule{
	{Method: fiber.MethodPost, Prefix: "/api/users/signup"},
	{Method: fiber.MethodPost, Prefix: "/api/users/signin"},
	{Method: fiber.MethodGet, Prefix: "/api/events"},
	{Prefix: "/health"},
	{Prefix: "/metrics"},
}
