package handler

import (
	"lingua-bot/internal/middleware"
	"lingua-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the ops API on app. The admin group is left out when
// authService is nil.
func RegisterRoutes(app *fiber.App, health *HealthHandler, admin *AdminHandler, authService service.AuthService) {
	app.Get("/health", health.Check)
	if authService == nil {
		return
	}

	validator := middleware.NewValidationMiddleware()
	adminGroup := app.Group("/api/admin", middleware.Protected(authService))
	adminGroup.Post("/broadcast", admin.TriggerBroadcast)
	adminGroup.Get("/users/:id", validator.ValidateUserIDParam(), admin.GetUser)
}
