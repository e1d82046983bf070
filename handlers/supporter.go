// handlers/supporter.go
package handlers

import (
	"love-triangle-backend/middleware"
	"love-triangle-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSupporterRoutes(app *fiber.App, supporterService *services.SupporterService) {
	app.Get("/supporters", supporterService.GetSupporterCount)

	// POST derives the fingerprint from request headers, so it needs the
	// middleware; GET does not.
	app.Post("/supporters", middleware.ClientFingerprint(), supporterService.RecordSupporter)
}
