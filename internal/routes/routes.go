package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TheManishHQ/shipos-kit/internal/config"
	"github.com/TheManishHQ/shipos-kit/internal/handlers"
	"github.com/TheManishHQ/shipos-kit/internal/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Webhook      *handlers.WebhookHandler
	Admin        *handlers.AdminHandler
	AI           *handlers.AIHandler
	Payments     *handlers.PaymentsHandler
	Users        *handlers.UsersHandler
	Marketing    *handlers.MarketingHandler
	Organization *handlers.OrganizationHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	h Handlers,
	users middleware.UserLookup,
	registry *prometheus.Registry,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Registered ahead of the limiter.
	api.Post("/webhooks/payments", h.Webhook.HandlePayments)

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(strictLimiter())
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTProtected(cfg)

	// Protected routes (JWT required) - apply middleware to individual routes
	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Delete("/auth/account", jwt, h.Auth.DeleteAccount)

	// Marketing (public)
	forms := strictLimiter()
	api.Post("/newsletter/subscribe", forms, h.Marketing.Subscribe)
	api.Post("/contact", forms, h.Marketing.Contact)
	api.Get("/payments/plans", h.Payments.ListPlans)

	api.Get("/users/me", jwt, h.Users.Me)
	api.Patch("/users/me", jwt, h.Users.UpdateMe)
	api.Post("/users/avatar-upload-url", jwt, h.Users.AvatarUploadURL)
	api.Post("/users/avatar-download-url", jwt, h.Users.AvatarDownloadURL)

	payments := api.Group("/payments", jwt)
	payments.Post("/create-checkout-link", h.Payments.CreateCheckoutLink)
	payments.Post("/create-customer-portal-link", h.Payments.CreateCustomerPortalLink)
	payments.Get("/purchases", h.Payments.ListPurchases)

	aiGroup := api.Group("/ai", jwt)
	aiGroup.Get("/chats", h.AI.ListChats)
	aiGroup.Post("/chats", h.AI.CreateChat)
	aiGroup.Get("/chats/:id", h.AI.GetChat)
	aiGroup.Put("/chats/:id", h.AI.UpdateChat)
	aiGroup.Delete("/chats/:id", h.AI.DeleteChat)
	aiGroup.Post("/chats/:chatId/messages", h.AI.SendMessage)
	aiGroup.Post("/image", h.AI.GenerateImage)
	aiGroup.Post("/transcribe", h.AI.Transcribe)

	api.Get("/organizations/:slug", jwt, h.Organization.GetBySlug)
	api.Get("/invitations/:id", jwt, h.Organization.GetInvitation)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", jwt, middleware.AdminRequired(users))
	admin.Get("/users", h.Admin.ListUsers)
	admin.Post("/users/:userId/role", h.Admin.SetRole)
	admin.Post("/users/:userId/ban", h.Admin.Ban)
	admin.Post("/users/:userId/unban", h.Admin.Unban)
	admin.Delete("/users/:userId", h.Admin.DeleteUser)
}

func strictLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
