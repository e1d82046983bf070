// handlers/artwork.go
package handlers

import (
	"love-triangle-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupArtworkRoutes(app *fiber.App, artworkService *services.ArtworkService) {
	app.Post("/artwork", artworkService.GenerateArtwork)
}
