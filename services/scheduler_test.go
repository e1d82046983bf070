package services

import (
	"testing"
	"time"

	"love-triangle-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSession(t *testing.T, db *gorm.DB, code, status string, createdAt time.Time, completedAt *time.Time) {
	t.Helper()

	session := models.QuizSession{
		ID:                 uuid.NewString(),
		ShareCode:          code,
		Player1Name:        "Amara",
		SelectedCategories: []string{"classic"},
		Player1Answers:     []int{0},
		Status:             status,
		CreatedAt:          createdAt,
		CompletedAt:        completedAt,
	}
	if status == models.SessionStatusCompleted {
		name := "Jin"
		session.Player2Name = &name
		session.Player2Answers = []int{1}
	}
	require.NoError(t, db.Create(&session).Error)
}

func TestSweepExpiredRemovesOnlyStaleRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	ttl := 30 * 24 * time.Hour
	now := time.Now()
	old := now.Add(-31 * 24 * time.Hour)
	oldDone := now.Add(-31 * 24 * time.Hour)

	seedSession(t, db, "AAAA22", models.SessionStatusWaiting, old, nil)
	seedSession(t, db, "BBBB33", models.SessionStatusWaiting, now, nil)
	// completed long ago: expires off completed_at, not created_at
	seedSession(t, db, "CCCC44", models.SessionStatusCompleted, old, &oldDone)
	seedSession(t, db, "DDDD55", models.SessionStatusCompleted, old, &now)

	expired, err := svc.sweepExpired(ttl)
	require.NoError(t, err)
	assert.EqualValues(t, 2, expired)

	var codes []string
	require.NoError(t, db.Model(&models.QuizSession{}).
		Order("share_code").Pluck("share_code", &codes).Error)
	assert.Equal(t, []string{"BBBB33", "DDDD55"}, codes)

	// the retired rows are soft-deleted, not erased
	var total int64
	require.NoError(t, db.Unscoped().Model(&models.QuizSession{}).Count(&total).Error)
	assert.EqualValues(t, 4, total)
}

func TestSweepExpiredNoStaleRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	seedSession(t, db, "AAAA22", models.SessionStatusWaiting, time.Now(), nil)

	expired, err := svc.sweepExpired(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, expired)
}
