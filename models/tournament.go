package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	TournamentStatusUpcoming  TournamentStatus = "upcoming"
	TournamentStatusOngoing   TournamentStatus = "ongoing"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusCanceled  TournamentStatus = "canceled"
)

// Tournament представляет турнир клуба.
type Tournament struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	ClubID          uuid.UUID        `json:"club_id" db:"club_id"`
	Name            string           `json:"name" db:"name"`
	Status          TournamentStatus `json:"status" db:"status"`
	MaxParticipants int              `json:"max_participants" db:"max_participants"`
	StartDate       time.Time        `json:"start_date" db:"start_date"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`

	Participants []uuid.UUID `json:"participants,omitempty" db:"-"`
}
