package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Setup installs CORS, security headers, metrics and the auth gate, then
// registers every route. Process-level middleware (sentry, recover, request
// id, access log) is installed by the caller first.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	codec *auth.TokenCodec,
	userHandler *handlers.UserHandler,
	contentHandler *handlers.ContentHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(metrics.Middleware())
	app.Use(middleware.AuthGate(codec))

	// Public
	app.Get("/", handlers.Root)
	app.Get("/health", healthHandler.Check)
	app.Get("/openapi.json", handlers.OpenAPI)
	app.Get("/docs", handlers.Docs)
	app.Get("/metrics", metrics.Handler())

	// Users: per-IP limit against credential stuffing
	users := app.Group("/users")
	users.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.DetailResponse{
				Detail: "Too many requests. Please try again later.",
			})
		},
	}))
	users.Post("/signup", userHandler.Signup)
	users.Post("/signin", userHandler.Signin)
	users.Post("/login", userHandler.Signin)

	// Contents: everything but /analyze requires a bearer token
	contents := app.Group("/contents")
	contents.Post("/analyze", contentHandler.Analyze)
	contents.Post("", contentHandler.Create)
	contents.Get("", contentHandler.List)
	contents.Get("/:id", contentHandler.Get)
	contents.Delete("/:id", contentHandler.Delete)
}
