package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/config"
	"github.com/splitmint/backend/internal/handlers"
	"github.com/splitmint/backend/internal/metrics"
	"github.com/splitmint/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	groupHandler *handlers.GroupHandler,
	invitationHandler *handlers.InvitationHandler,
	expenseHandler *handlers.ExpenseHandler,
	messageHandler *handlers.MessageHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/metrics", metrics.Handler())
	app.Static(cfg.UploadBaseURL, cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// Everything below requires a valid cookie token resolved to a live
	// user record.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.LoadUser(db))

	profile := protected.Group("/profile")
	profile.Get("/", profileHandler.View)
	profile.Patch("/", profileHandler.Update)
	profile.Delete("/", profileHandler.DeleteAccount)

	groups := protected.Group("/groups")
	groups.Post("/", groupHandler.Create)
	groups.Get("/", groupHandler.List)
	groups.Patch("/:groupId", groupHandler.Update)
	groups.Delete("/:groupId", groupHandler.Delete)
	groups.Delete("/:groupId/members/:userId", groupHandler.RemoveMember)
	groups.Post("/:groupId/invitations", invitationHandler.Send)
	groups.Get("/:groupId/invitations", invitationHandler.ListSent)
	groups.Get("/:groupId/expenses", expenseHandler.List)
	groups.Post("/:groupId/expenses", expenseHandler.Create)

	invitations := protected.Group("/invitations")
	invitations.Get("/", invitationHandler.ListReceived)
	invitations.Post("/:invitationId/review", invitationHandler.Review)
	invitations.Post("/:invitationId/cancel", invitationHandler.Cancel)

	expenses := protected.Group("/expenses")
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Patch("/:expenseId", expenseHandler.Update)
	expenses.Delete("/:expenseId", expenseHandler.Delete)

	messages := protected.Group("/messages")
	messages.Post("/", messageHandler.Send)
	messages.Get("/", messageHandler.List)
	messages.Delete("/:id", messageHandler.Delete)
}
