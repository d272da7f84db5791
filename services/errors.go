package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/billiards-bracket/repositories"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// Ошибки ввода счёта
	ErrNegativeScore  = errors.New("scores cannot be negative")
	ErrEmptyScore     = errors.New("at least one score must be greater than zero")
	ErrDrawNotAllowed = errors.New("draws are not allowed")

	// Предусловия отправки
	ErrMatchNotReady        = errors.New("match is not ready for score submission")
	ErrConcurrentSubmission = errors.New("a score submission for this match is already in progress")

	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Исправление счёта
	ErrMatchNotCompleted  = errors.New("only completed matches can be corrected")
	ErrWinnerChange       = errors.New("score correction cannot change the match winner")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Генерация сетки
	ErrBracketAlreadyExists  = errors.New("bracket already exists for this tournament")
	ErrTournamentNotUpcoming = errors.New("bracket can only be generated for an upcoming tournament")
	ErrWrongEntrantCount     = errors.New("wrong number of confirmed participants for a double elimination bracket")
)

// AdvancementRejectedError carries the message of a backend refusal verbatim.
type AdvancementRejectedError struct {
	Message string
}

func (e *AdvancementRejectedError) Error() string {
	return e.Message
}

// handleRepositoryError maps repository sentinels to service errors.
func handleRepositoryError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	op := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%s: %w", op, ErrMatchNotFound)
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%s: %w", op, ErrTournamentNotFound)
	case errors.Is(err, repositories.ErrMatchNotCompleted):
		return fmt.Errorf("%s: %w", op, ErrMatchNotCompleted)
	case errors.Is(err, repositories.ErrMatchConflict):
		return fmt.Errorf("%s: %w", op, ErrBracketAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validateScores applies the game rules shared by submission and correction.
func validateScores(scorePlayer1, scorePlayer2 int) error {
	if scorePlayer1 < 0 || scorePlayer2 < 0 {
		return ErrNegativeScore
	}
	if scorePlayer1 == 0 && scorePlayer2 == 0 {
		return ErrEmptyScore
	}
	if scorePlayer1 == scorePlayer2 {
		return ErrDrawNotAllowed
	}
	return nil
}
