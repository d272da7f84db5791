package brackets

import (
	"github.com/Dosada05/billiards-bracket/models"
	"github.com/google/uuid"
)

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func ptrInt(v int) *int { return &v }

func newMatch(round, number int, bt models.BracketType, status models.MatchStatus, players ...uuid.UUID) *models.Match {
	m := &models.Match{
		ID:          uuid.New(),
		RoundNumber: round,
		MatchNumber: number,
		BracketType: bt,
		Status:      status,
	}
	if len(players) > 0 {
		m.Player1ID = ptrUUID(players[0])
	}
	if len(players) > 1 {
		m.Player2ID = ptrUUID(players[1])
	}
	return m
}
