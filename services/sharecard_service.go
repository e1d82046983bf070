package services

import (
	"errors"
	"path/filepath"
	"strings"

	"love-triangle-backend/models"
	"love-triangle-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxCardSize = 5 * 1024 * 1024 // 5MB

type ShareCardService struct {
	DB *gorm.DB
}

func NewShareCardService(db *gorm.DB) *ShareCardService {
	return &ShareCardService{DB: db}
}

// UploadShareCard stores the client-rendered result image on R2 so the share
// link outlives the rendering device. Only completed sessions have a result
// to share; re-uploading replaces the previous card.
func (s *ShareCardService) UploadShareCard(c *fiber.Ctx) error {
	code := utils.NormalizeShareCode(c.Params("code"))

	var session models.QuizSession
	if err := s.DB.First(&session, "share_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if session.Status != models.SessionStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session is not completed yet"})
	}

	cardFile, err := c.FormFile("card")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card image is required"})
	}
	if cardFile.Size > maxCardSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card too large (max 5MB)"})
	}
	if !strings.HasPrefix(cardFile.Header.Get("Content-Type"), "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card must be an image"})
	}

	ext := filepath.Ext(cardFile.Filename)
	if ext == "" {
		ext = ".png"
	}
	player2 := ""
	if session.Player2Name != nil {
		player2 = *session.Player2Name
	}
	key := "cards/" + slug.Make(session.Player1Name+"-"+player2) + "-" + uuid.NewString() + ext

	url, err := utils.UploadFileToR2(cardFile, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload card"})
	}

	card := models.ShareCard{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		URL:       url,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.ShareCard{}).Error; err != nil {
			return err
		}
		return tx.Create(&card).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save card"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": card.URL})
}
