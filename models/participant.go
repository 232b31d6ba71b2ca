package models

import (
	"time"
)

// Participant status values. ONLINE is set by the auth service at login;
// this service only ever moves participants between INGAME and OFFLINE.
const (
	StatusOnline  = "ONLINE"
	StatusOffline = "OFFLINE"
	StatusInGame  = "INGAME"
)

// Participant is a user's live session record. Owned by the registration
// service; this service mutates only TournamentID and Status, and only
// through the join/leave transactions.
//
// Invariant: TournamentID is non-nil iff Status == INGAME and a matching
// TournamentMember row exists.
type Participant struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	TournamentID *string   `gorm:"index" json:"tournament,omitempty"`
	Status       string    `gorm:"type:varchar(16);default:'OFFLINE';not null" json:"status"`
	PasswordHash string    `json:"-"` // never serialized, never selected into snapshots
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
