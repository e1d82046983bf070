package models

import "time"

// SupporterEvent is one row in the supporter ledger. Only one-way hashes of
// the caller's IP and user-agent are stored — raw values never touch the
// database.
type SupporterEvent struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	IPHash    string    `json:"-" gorm:"index:idx_supporter_fingerprint,priority:1;not null"`
	UAHash    string    `json:"-" gorm:"index:idx_supporter_fingerprint,priority:2;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
