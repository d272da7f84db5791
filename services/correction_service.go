package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/Dosada05/billiards-bracket/models"
	"github.com/Dosada05/billiards-bracket/repositories"
	"github.com/google/uuid"
)

type CorrectionService interface {
	// CorrectScore rewrites the score of a completed match. The corrected
	// score must keep the recorded winner.
	CorrectScore(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int, actorRole models.UserRole) (*models.Match, error)
}

type correctionService struct {
	matchRepo repositories.MatchRepository
	notifier  Notifier
	logger    *slog.Logger
}

func NewCorrectionService(matchRepo repositories.MatchRepository, notifier Notifier, logger *slog.Logger) CorrectionService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &correctionService{matchRepo: matchRepo, notifier: notifier, logger: logger}
}

func (s *correctionService) CorrectScore(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int, actorRole models.UserRole) (*models.Match, error) {
	if !actorRole.CanManageMatches() {
		return nil, ErrForbiddenOperation
	}
	if err := validateScores(scorePlayer1, scorePlayer2); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load match %s", matchID)
	}
	if match.Status != models.MatchStatusCompleted {
		return nil, ErrMatchNotCompleted
	}

	winner := match.Player1ID
	if scorePlayer2 > scorePlayer1 {
		winner = match.Player2ID
	}
	if match.WinnerID == nil || winner == nil || *winner != *match.WinnerID {
		return nil, ErrWinnerChange
	}

	updated, err := s.matchRepo.CorrectScore(ctx, matchID, scorePlayer1, scorePlayer2)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to correct score of match %s", matchID)
	}

	s.logger.InfoContext(ctx, "match score corrected",
		slog.String("match_id", matchID.String()),
		slog.Int("score_player1", scorePlayer1),
		slog.Int("score_player2", scorePlayer2),
		slog.Int("edit_count", updated.ScoreEditCount),
	)
	s.notifier.Notify(ctx, updated.TournamentID, brackets.MessageMatchCorrected, updated)
	return updated, nil
}
