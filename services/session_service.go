package services

import (
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"love-triangle-backend/models"
	"love-triangle-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxCodeAttempts bounds the share-code allocation loop. With 32^6 codes the
// retry path is effectively unreachable in practice, but collisions are
// possible, not just theoretical, so the loop must exist.
const maxCodeAttempts = 10

// maxPlayerNameLen caps free-text player names.
const maxPlayerNameLen = 20

var ErrCodeAllocationExhausted = errors.New("share code allocation exhausted")

type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

type createSessionRequest struct {
	Player1Name        string   `json:"player1_name"`
	SelectedCategories []string `json:"selected_categories"`
	Player1Answers     []int    `json:"player1_answers"`
}

type completeSessionRequest struct {
	Player2Name    string `json:"player2_name"`
	Player2Answers []int  `json:"player2_answers"`
}

// createWithFreshCode allocates a share code and inserts the row. The count
// filters obvious collisions against live sessions; soft-deleted (expired)
// rows are outside the partial unique index, so their codes return to the
// pool. If two creates race to the same code, the index rejects the loser
// with a duplicate-key error and the attempt is simply retried.
func (s *SessionService) createWithFreshCode(session *models.QuizSession) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code := utils.GenerateShareCode()

		var count int64
		if err := s.DB.Model(&models.QuizSession{}).
			Where("share_code = ?", code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("⚠️  share code collision on %s (attempt %d/%d)", code, attempt, maxCodeAttempts)
			continue
		}

		session.ID = uuid.NewString()
		session.ShareCode = code
		err := s.DB.Create(session).Error
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("⚠️  share code %s taken by a concurrent create (attempt %d/%d)", code, attempt, maxCodeAttempts)
			continue
		}
		return err
	}
	return ErrCodeAllocationExhausted
}

// CreateSession persists player 1's half of the exchange and hands back the
// allocated share code. The row is fully committed before the code leaves
// this handler — the client must never hold a code the store doesn't.
func (s *SessionService) CreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}

	req.Player1Name = strings.TrimSpace(req.Player1Name)
	if req.Player1Name == "" || utf8.RuneCountInString(req.Player1Name) > maxPlayerNameLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player1_name must be 1-20 characters"})
	}
	if len(req.SelectedCategories) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "selected_categories is required"})
	}
	if len(req.Player1Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player1_answers is required"})
	}

	session := models.QuizSession{
		Player1Name:        req.Player1Name,
		SelectedCategories: req.SelectedCategories,
		Player1Answers:     req.Player1Answers,
		Status:             models.SessionStatusWaiting,
	}
	if err := s.createWithFreshCode(&session); err != nil {
		// Exhaustion should never surface with this code space; treat it as a
		// generic server error rather than crashing.
		log.Printf("❌ share code allocation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to allocate share code"})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// FetchSession returns the session for a share code. A completed session is
// still a 200: the join flow tells "already played" apart from "bad link" by
// looking at status, so the two must not collapse into one error.
func (s *SessionService) FetchSession(c *fiber.Ctx) error {
	code := utils.NormalizeShareCode(c.Params("code"))

	var session models.QuizSession
	if err := s.DB.Preload("ShareCard").First(&session, "share_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(session)
}

// CompleteSession records player 2's half. The waiting → completed transition
// is a single conditional UPDATE keyed on the current status; whoever gets
// zero rows affected lost the race (or the session never existed). Never a
// read-then-write pair — two concurrent completions would both see "waiting".
func (s *SessionService) CompleteSession(c *fiber.Ctx) error {
	code := utils.NormalizeShareCode(c.Params("code"))

	var req completeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}

	req.Player2Name = strings.TrimSpace(req.Player2Name)
	if req.Player2Name == "" || utf8.RuneCountInString(req.Player2Name) > maxPlayerNameLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player2_name must be 1-20 characters"})
	}
	if len(req.Player2Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player2_answers is required"})
	}

	// Length precheck against the stored answers. Read-only — the conditional
	// update below stays the sole authority on who wins the transition.
	var session models.QuizSession
	if err := s.DB.First(&session, "share_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if len(req.Player2Answers) != len(session.Player1Answers) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "player2_answers must have the same length as player1_answers",
		})
	}

	now := time.Now()
	res := s.DB.Model(&models.QuizSession{}).
		Where("share_code = ? AND status = ?", code, models.SessionStatusWaiting).
		Select("player2_name", "player2_answers", "status", "completed_at").
		Updates(models.QuizSession{
			Player2Name:    &req.Player2Name,
			Player2Answers: req.Player2Answers,
			Status:         models.SessionStatusCompleted,
			CompletedAt:    &now,
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete session"})
	}
	if res.RowsAffected == 0 {
		// Lost the race, or the link went stale between precheck and write.
		// One advisory read picks the right user-facing message.
		var current models.QuizSession
		if err := s.DB.First(&current, "share_code = ?", code).Error; err == nil &&
			current.Status == models.SessionStatusCompleted {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session already completed"})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found or already completed"})
	}

	var updated models.QuizSession
	if err := s.DB.First(&updated, "share_code = ?", code).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reload session"})
	}

	log.Printf("💘 session %s completed: %s × %s", updated.ShareCode, updated.Player1Name, req.Player2Name)
	return c.JSON(updated)
}
