package models

import (
	"time"
)

// Tournament lifecycle states.
const (
	TournamentWaiting  = "WAITING"
	TournamentActive   = "ACTIVE"
	TournamentFinished = "FINISHED"
	TournamentUpcoming = "UPCOMING"
)

// Tournament is a joinable room with bounded membership. Created and
// administered by the room-management API; this service only mutates its
// member set.
type Tournament struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	State      string    `gorm:"type:varchar(16);default:'WAITING';not null" json:"state"`
	MaxMembers int       `gorm:"default:100;not null" json:"max_members"`
	OwnerID    string    `gorm:"type:uuid" json:"owner,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// CurrentUsers is assembled from tournament_members by the store;
	// it is part of the snapshot sent to clients, not a column.
	CurrentUsers []string `gorm:"-" json:"current_users"`
}

// TournamentMember is one row of a tournament's member set. The composite
// unique index gives set semantics: inserting an existing member is a
// no-op under ON CONFLICT DO NOTHING.
type TournamentMember struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	TournamentID string    `gorm:"type:uuid;uniqueIndex:idx_tournament_member;not null" json:"tournament_id"`
	UserID       string    `gorm:"type:uuid;uniqueIndex:idx_tournament_member;not null" json:"user_id"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
