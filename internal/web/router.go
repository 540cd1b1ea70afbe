package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RegisterRoutes mounts every HTTP route on the app. The submission route
// carries an extra per-IP limiter on top of the manager's per-email throttle.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Use(recover.New())

	app.Get("/health", h.Health)
	app.Get("/files/*", h.ServeFile)

	api := app.Group("/api")

	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)
	api.Post("/auth/logout", h.Logout)
	api.Get("/auth/me", h.Me)

	submitLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"success": false,
				"error":   "Too many registration attempts. Please try again later.",
			})
		},
	})
	api.Post("/registration", submitLimiter, h.SubmitRegistration)
	api.Get("/registration/approve", h.ApproveRegistration)
	api.Get("/registration/reject", h.RejectRegistration)
	api.Get("/registration/status", h.RegistrationStatus)

	api.Get("/properties", h.ListProperties)
	api.Get("/properties/featured", h.ListFeaturedProperties)
	api.Get("/properties/mine", h.ListMyProperties)
	api.Get("/properties/:slug", h.GetProperty)
	api.Post("/properties", h.CreateProperty)
	api.Patch("/properties/:id", h.UpdateProperty)
	api.Delete("/properties/:id", h.DeleteProperty)

	api.Get("/agents", h.ListAgents)
	api.Get("/agents/featured", h.ListFeaturedAgents)
	api.Get("/agents/:id", h.GetAgent)
	api.Post("/agents/:id/contact", h.ContactAgent)

	api.Get("/favorites", h.ListFavorites)
	api.Get("/favorites/:propertyId", h.IsFavorite)
	api.Put("/favorites/:propertyId", h.AddFavorite)
	api.Delete("/favorites/:propertyId", h.RemoveFavorite)
	api.Post("/favorites/:propertyId", h.ToggleFavorite)

	api.Post("/service-requests", h.SubmitServiceRequest)
	api.Get("/service-requests", h.ListMyServiceRequests)

	api.Post("/upload", h.Upload)
}
