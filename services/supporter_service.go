package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"love-triangle-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// supporterDedupWindow is how long a fingerprint keeps its "already thanked"
// status.
const supporterDedupWindow = 30 * 24 * time.Hour

type SupporterService struct {
	DB *gorm.DB
}

func NewSupporterService(db *gorm.DB) *SupporterService {
	return &SupporterService{DB: db}
}

// FingerprintHash is a one-way SHA-256 over a caller attribute. Raw IPs and
// user-agents never reach the database.
func FingerprintHash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// GetSupporterCount returns the raw lifetime tally. Dedup never applies to
// the count — only to the thanked flag on Record.
func (s *SupporterService) GetSupporterCount(c *fiber.Ctx) error {
	var count int64
	if err := s.DB.Model(&models.SupporterEvent{}).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count supporters"})
	}
	return c.JSON(fiber.Map{"count": count})
}

// RecordSupporter inserts one event per distinct fingerprint per 30-day
// window. The existence check and the insert are two statements; concurrent
// identical fingerprints can occasionally double-count. That's fine for a
// thank-you counter — unlike session completion, which must not race.
func (s *SupporterService) RecordSupporter(c *fiber.Ctx) error {
	ip, _ := c.Locals("client_ip").(string)
	ua, _ := c.Locals("client_ua").(string)
	ipHash := FingerprintHash(ip)
	uaHash := FingerprintHash(ua)

	windowStart := time.Now().Add(-supporterDedupWindow)
	thanked := false

	var existing models.SupporterEvent
	err := s.DB.
		Where("ip_hash = ? AND ua_hash = ? AND created_at >= ?", ipHash, uaHash, windowStart).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		event := models.SupporterEvent{
			ID:     uuid.NewString(),
			IPHash: ipHash,
			UAHash: uaHash,
		}
		if err := s.DB.Create(&event).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record supporter"})
		}
		thanked = true
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var count int64
	if err := s.DB.Model(&models.SupporterEvent{}).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count supporters"})
	}

	if thanked {
		log.Printf("💖 new supporter recorded (total: %d)", count)
	}
	return c.JSON(fiber.Map{"count": count, "thanked": thanked})
}
