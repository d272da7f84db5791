package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/billiards-bracket/models"
)

var (
	ErrWinnerOnOpenMatch   = errors.New("winner is set but match is not completed")
	ErrWinnerNotInMatch    = errors.New("winner is not one of the match players")
	ErrSamePlayerTwice     = errors.New("both slots hold the same player")
	ErrCompletedDraw       = errors.New("completed match has equal scores")
	ErrNegativeStoredScore = errors.New("stored score is negative")
	ErrBracketTypeMismatch = errors.New("bracket type does not match round number")
	ErrInvalidMatchStatus  = errors.New("invalid match status")
)

// IsReady reports whether a score may be submitted for the match.
func IsReady(m *models.Match) bool {
	if m == nil {
		return false
	}
	if m.Status != models.MatchStatusScheduled && m.Status != models.MatchStatusInProgress {
		return false
	}
	if m.Player1ID == nil || m.Player2ID == nil {
		return false
	}
	if *m.Player1ID == *m.Player2ID {
		return false
	}
	return m.WinnerID == nil
}

// ValidateMatch checks the stored invariants of a match and joins every violation found.
func ValidateMatch(m *models.Match) error {
	if m == nil {
		return errors.New("nil match")
	}

	var errs []error
	spec, err := Classify(m.RoundNumber)
	if err != nil {
		errs = append(errs, err)
	} else if spec.BracketType != "" && m.BracketType != spec.BracketType {
		errs = append(errs, fmt.Errorf("%w: round %d expects %q, got %q", ErrBracketTypeMismatch, m.RoundNumber, spec.BracketType, m.BracketType))
	} else if spec.BracketType == "" && !m.BracketType.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrBracketTypeMismatch, m.BracketType))
	}

	if !m.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMatchStatus, m.Status))
	}
	if m.Player1ID != nil && m.Player2ID != nil && *m.Player1ID == *m.Player2ID {
		errs = append(errs, ErrSamePlayerTwice)
	}
	if m.WinnerID != nil {
		if m.Status != models.MatchStatusCompleted {
			errs = append(errs, ErrWinnerOnOpenMatch)
		}
		if !m.HasPlayer(*m.WinnerID) {
			errs = append(errs, ErrWinnerNotInMatch)
		}
	}
	if (m.ScorePlayer1 != nil && *m.ScorePlayer1 < 0) || (m.ScorePlayer2 != nil && *m.ScorePlayer2 < 0) {
		errs = append(errs, ErrNegativeStoredScore)
	}
	if m.Status == models.MatchStatusCompleted && m.ScorePlayer1 != nil && m.ScorePlayer2 != nil && *m.ScorePlayer1 == *m.ScorePlayer2 {
		errs = append(errs, ErrCompletedDraw)
	}

	return errors.Join(errs...)
}
