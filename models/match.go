package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusWaiting    MatchStatus = "waiting"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusWaiting, MatchStatusScheduled, MatchStatusInProgress, MatchStatusCompleted:
		return true
	}
	return false
}

// BracketType соответствует колонке bracket_type в таблице matches.
type BracketType string

const (
	BracketWinners BracketType = "winners"
	BracketLosers  BracketType = "losers"
	BracketFinal   BracketType = "final"
)

func (b BracketType) Valid() bool {
	switch b {
	case BracketWinners, BracketLosers, BracketFinal:
		return true
	}
	return false
}

// BranchType is informational only; stage membership is decided by the round number.
type BranchType string

const (
	BranchA BranchType = "branch_a"
	BranchB BranchType = "branch_b"
)

type Match struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	TournamentID        uuid.UUID   `json:"tournament_id" db:"tournament_id"`
	RoundNumber         int         `json:"round_number" db:"round_number"`
	MatchNumber         int         `json:"match_number" db:"match_number"`
	BracketType         BracketType `json:"bracket_type" db:"bracket_type"`
	BranchType          *BranchType `json:"branch_type,omitempty" db:"branch_type"`
	Player1ID           *uuid.UUID  `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID           *uuid.UUID  `json:"player2_id,omitempty" db:"player2_id"`
	WinnerID            *uuid.UUID  `json:"winner_id,omitempty" db:"winner_id"`
	Status              MatchStatus `json:"status" db:"status"`
	ScorePlayer1        *int        `json:"score_player1,omitempty" db:"score_player1"`
	ScorePlayer2        *int        `json:"score_player2,omitempty" db:"score_player2"`
	AssignedTableNumber *int        `json:"assigned_table_number,omitempty" db:"assigned_table_number"`
	ScoreEditCount      int         `json:"score_edit_count" db:"score_edit_count"`
	LastScoreEdit       *time.Time  `json:"last_score_edit,omitempty" db:"last_score_edit"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`

	// Связи для продвижения, заполняются генератором сетки
	WinnerNextMatchID *uuid.UUID `json:"winner_next_match_id,omitempty" db:"winner_next_match_id"`
	WinnerToSlot      *int       `json:"winner_to_slot,omitempty" db:"winner_to_slot"`
	LoserNextMatchID  *uuid.UUID `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	LoserToSlot       *int       `json:"loser_to_slot,omitempty" db:"loser_to_slot"`
}

// HasPlayer reports whether id occupies one of the two slots.
func (m *Match) HasPlayer(id uuid.UUID) bool {
	return (m.Player1ID != nil && *m.Player1ID == id) || (m.Player2ID != nil && *m.Player2ID == id)
}

// PlayerCount returns how many slots are filled.
func (m *Match) PlayerCount() int {
	n := 0
	if m.Player1ID != nil {
		n++
	}
	if m.Player2ID != nil {
		n++
	}
	return n
}
