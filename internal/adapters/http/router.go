package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/motospirit/internal/pkg/metrics"
)

// storageTimeout bounds handlers that only touch local storage.
const storageTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	local := func(h fiber.Handler) fiber.Handler { return timeout.NewWithContext(h, storageTimeout) }

	v1.Get("/profile", local(GetProfileHandler(deps)))
	v1.Put("/profile", local(PutProfileHandler(deps)))

	v1.Get("/bikes", local(ListBikesHandler(deps)))
	v1.Post("/bikes", local(CreateBikeHandler(deps)))
	v1.Get("/bikes/:id", local(GetBikeHandler(deps)))
	v1.Put("/bikes/:id", local(UpdateBikeHandler(deps)))
	v1.Delete("/bikes/:id", local(DeleteBikeHandler(deps)))
	v1.Get("/bikes/:id/maintenance", local(ListMaintenanceHandler(deps)))
	v1.Post("/bikes/:id/maintenance", local(AddMaintenanceHandler(deps)))
	v1.Delete("/maintenance/:id", local(DeleteMaintenanceHandler(deps)))
	v1.Get("/bikes/:id/fuel", local(ListFuelHandler(deps)))
	v1.Post("/bikes/:id/fuel", local(AddFuelHandler(deps)))
	v1.Delete("/fuel/:id", local(DeleteFuelHandler(deps)))
	v1.Get("/bikes/:id/logbook", local(LogbookHandler(deps)))
	v1.Get("/bikes/:id/consumption", local(ConsumptionHandler(deps)))
	v1.Post("/bikes/:id/records", local(ConfirmRecordHandler(deps)))
	v1.Get("/bikes/:id/analysis", local(LatestAnalysisHandler(deps)))

	v1.Get("/trips/current", CurrentTripHandler(deps))
	v1.Get("/trips/map", TripMapHandler(deps))
	v1.Post("/trips/map/visible", TripMapVisibleHandler(deps))
	v1.Get("/trips/history", local(TripHistoryHandler(deps)))
	v1.Get("/chat", local(ChatHistoryHandler(deps)))
	v1.Delete("/chat", local(ClearChatHandler(deps)))

	// Generation-backed routes run until the client goes away.
	v1.Post("/trips/plan", PlanTripHandler(deps))
	v1.Post("/chat", SendChatHandler(deps))
	v1.Post("/receipts/extract", ExtractReceiptHandler(deps))
	v1.Post("/bikes/:id/analysis", AnalyzeBikeHandler(deps))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
