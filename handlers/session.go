// handlers/session.go
package handlers

import (
	"love-triangle-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSessionRoutes(app *fiber.App, sessionService *services.SessionService, cardService *services.ShareCardService) {
	// All session routes are public — participants are anonymous and linked
	// only by the share code.
	app.Post("/quiz-sessions", sessionService.CreateSession)
	app.Get("/quiz-sessions/:code", sessionService.FetchSession)
	app.Patch("/quiz-sessions/:code", sessionService.CompleteSession)

	app.Post("/quiz-sessions/:code/share-card", cardService.UploadShareCard)
}
