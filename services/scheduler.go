// services/scheduler.go
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"love-triangle-backend/models"

	"github.com/go-co-op/gocron/v2"
)

// StartExpirySweeper soft-deletes stale sessions once an hour. Waiting
// sessions expire SESSION_TTL_DAYS (default 30) after creation, completed
// ones the same interval after completion. Expired codes return to the
// allocation pool; the create/fetch/complete path never deletes anything.
func (s *SessionService) StartExpirySweeper() {
	ttlDays := 30
	if v := os.Getenv("SESSION_TTL_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttlDays = parsed
		}
	}
	ttl := time.Duration(ttlDays) * 24 * time.Hour

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			expired, err := s.sweepExpired(ttl)
			if err != nil {
				log.Printf("[Sweeper] DB error: %v", err)
				return
			}
			if expired > 0 {
				log.Printf("🧹 expired %d stale sessions", expired)
			}
		}),
	)
}

// sweepExpired soft-deletes sessions whose lifetime exceeded ttl and returns
// how many rows it retired. Their share codes become allocatable again.
func (s *SessionService) sweepExpired(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)

	stale := s.DB.
		Where("status = ? AND created_at < ?", models.SessionStatusWaiting, cutoff).
		Delete(&models.QuizSession{})
	if stale.Error != nil {
		return 0, stale.Error
	}
	expired := stale.RowsAffected

	done := s.DB.
		Where("status = ? AND completed_at < ?", models.SessionStatusCompleted, cutoff).
		Delete(&models.QuizSession{})
	if done.Error != nil {
		return expired, done.Error
	}
	return expired + done.RowsAffected, nil
}
