// models/session.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SessionStatusWaiting   = "waiting"
	SessionStatusCompleted = "completed"
)

// QuizSession is one asynchronous two-player quiz exchange. Player 1 creates
// it and hands the share code to player 2; the row is mutated exactly once,
// when player 2's completion wins the waiting → completed transition.
type QuizSession struct {
	ID string `json:"id" gorm:"primaryKey"`

	// The unique index only covers live rows, so a code freed by the expiry
	// sweeper (soft delete) can be allocated again.
	ShareCode string `json:"share_code" gorm:"uniqueIndex:idx_quiz_sessions_share_code,where:deleted_at IS NULL;not null"`

	Player1Name string  `json:"player1_name" gorm:"not null"`
	Player2Name *string `json:"player2_name,omitempty"`

	SelectedCategories []string `json:"selected_categories" gorm:"serializer:json;not null"`
	Player1Answers     []int    `json:"player1_answers" gorm:"serializer:json;not null"`
	Player2Answers     []int    `json:"player2_answers,omitempty" gorm:"serializer:json"`

	// 🎛️ waiting | completed — completed is terminal
	Status string `json:"status" gorm:"default:'waiting';index"`

	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"` // set by the expiry sweeper only

	// 🔗 Client-rendered result image, if one was uploaded
	ShareCard *ShareCard `json:"share_card,omitempty" gorm:"foreignKey:SessionID"`
}

type ShareCard struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex;not null"`
	URL       string    `json:"url" gorm:"not null"` // e.g., public R2/CDN URL
	CreatedAt time.Time `json:"created_at"`
}
