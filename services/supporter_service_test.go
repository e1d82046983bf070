package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"love-triangle-backend/middleware"
	"love-triangle-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type supporterResponse struct {
	Count   int64 `json:"count"`
	Thanked bool  `json:"thanked"`
}

func newSupporterApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewSupporterService(db)

	app := fiber.New()
	app.Get("/supporters", svc.GetSupporterCount)
	app.Post("/supporters", middleware.ClientFingerprint(), svc.RecordSupporter)
	return app, db
}

func recordSupporter(t *testing.T, app *fiber.App, ip, ua string) supporterResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/supporters", nil)
	req.Header.Set("X-Forwarded-For", ip)
	req.Header.Set("User-Agent", ua)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out supporterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRecordSupporterDedup(t *testing.T) {
	app, db := newSupporterApp(t)

	first := recordSupporter(t, app, "203.0.113.7", "quiz-test/1.0")
	assert.True(t, first.Thanked)
	assert.EqualValues(t, 1, first.Count)

	// same fingerprint inside the window: no new row, no thanks
	second := recordSupporter(t, app, "203.0.113.7", "quiz-test/1.0")
	assert.False(t, second.Thanked)
	assert.EqualValues(t, 1, second.Count)

	var rows int64
	require.NoError(t, db.Model(&models.SupporterEvent{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	// different user-agent is a different fingerprint
	third := recordSupporter(t, app, "203.0.113.7", "quiz-test/2.0")
	assert.True(t, third.Thanked)
	assert.EqualValues(t, 2, third.Count)
}

func TestRecordSupporterAfterWindowExpires(t *testing.T) {
	app, db := newSupporterApp(t)

	stale := models.SupporterEvent{
		ID:        uuid.NewString(),
		IPHash:    FingerprintHash("203.0.113.7"),
		UAHash:    FingerprintHash("quiz-test/1.0"),
		CreatedAt: time.Now().Add(-31 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&stale).Error)

	out := recordSupporter(t, app, "203.0.113.7", "quiz-test/1.0")
	assert.True(t, out.Thanked, "a fingerprint outside the 30-day window counts as new")
	assert.EqualValues(t, 2, out.Count, "the count is a raw tally, old rows included")
}

func TestSupporterCountIsRawTally(t *testing.T) {
	app, db := newSupporterApp(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.SupporterEvent{
			ID:        uuid.NewString(),
			IPHash:    FingerprintHash("ip"),
			UAHash:    FingerprintHash("ua"),
			CreatedAt: time.Now().Add(-time.Duration(40+i) * 24 * time.Hour),
		}).Error)
	}

	resp, raw := doJSON(t, app, http.MethodGet, "/supporters", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out supporterResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.EqualValues(t, 3, out.Count, "dedup and the window never apply to the count")
}

func TestRawFingerprintNeverPersisted(t *testing.T) {
	app, db := newSupporterApp(t)

	recordSupporter(t, app, "203.0.113.7", "quiz-test/1.0")

	var event models.SupporterEvent
	require.NoError(t, db.First(&event).Error)
	assert.NotEqual(t, "203.0.113.7", event.IPHash)
	assert.NotEqual(t, "quiz-test/1.0", event.UAHash)
	assert.Len(t, event.IPHash, 64)
	assert.Len(t, event.UAHash, 64)
	assert.Equal(t, FingerprintHash("203.0.113.7"), event.IPHash)
}

func TestFingerprintHashStable(t *testing.T) {
	assert.Equal(t, FingerprintHash("a"), FingerprintHash("a"))
	assert.NotEqual(t, FingerprintHash("a"), FingerprintHash("b"))
	assert.Len(t, FingerprintHash(""), 64)
}
