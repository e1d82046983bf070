package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"love-triangle-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// ArtworkService forwards couple-portrait generation requests to the external
// image model. No prompt logic lives server-side; this exists so the API key
// stays out of the browser.
type ArtworkService struct {
	APIURL string
	APIKey string
}

func NewArtworkService() *ArtworkService {
	return &ArtworkService{
		APIURL: os.Getenv("ARTWORK_API_URL"),
		APIKey: os.Getenv("ARTWORK_API_KEY"),
	}
}

type artworkRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateArtwork relays the upstream response verbatim, status code included.
func (s *ArtworkService) GenerateArtwork(c *fiber.Ctx) error {
	if s.APIURL == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "artwork generation is not configured"})
	}

	var req artworkRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "prompt is required"})
	}

	body, err := json.Marshal(artworkRequest{Prompt: req.Prompt})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode request"})
	}

	upstream, err := http.NewRequestWithContext(c.Context(), http.MethodPost, s.APIURL, bytes.NewReader(body))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build upstream request"})
	}
	upstream.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		upstream.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := utils.HTTPClient.Do(upstream)
	if err != nil {
		log.Printf("❌ artwork upstream unreachable: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "artwork service unavailable"})
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "artwork service returned a broken response"})
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		c.Set("Content-Type", ct)
	}
	return c.Status(resp.StatusCode).Send(payload)
}
