package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/billiards-bracket/advancement"
	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/Dosada05/billiards-bracket/repositories"
	"github.com/Dosada05/billiards-bracket/storage"
	"github.com/google/uuid"
)

type SubmissionOutcome string

const (
	OutcomeAdvanced           SubmissionOutcome = "advanced"
	OutcomeTournamentComplete SubmissionOutcome = "tournament_complete"
)

type SubmissionResult struct {
	MatchID      uuid.UUID                  `json:"match_id"`
	TournamentID uuid.UUID                  `json:"tournament_id"`
	Outcome      SubmissionOutcome          `json:"outcome"`
	Advancement  map[string]json.RawMessage `json:"advancement,omitempty"`
}

// Archiver stores the final bracket once the tournament is over.
type Archiver interface {
	Archive(ctx context.Context, tournamentID uuid.UUID, snapshot interface{}) (*storage.UploadResult, error)
}

type SubmissionService interface {
	// Submit validates a score pair and hands it to the advancement procedure.
	// At most one submission per match is in flight at any time.
	Submit(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int, submittedBy uuid.UUID) (*SubmissionResult, error)
	// InFlight reports whether a submission for the match is currently running.
	InFlight(matchID uuid.UUID) bool
}

type submissionService struct {
	matchRepo repositories.MatchRepository
	gateway   advancement.Gateway
	notifier  Notifier
	archiver  Archiver
	logger    *slog.Logger

	mu   sync.Mutex
	busy map[uuid.UUID]struct{}
}

// NewSubmissionService wires the submission flow. archiver may be nil.
func NewSubmissionService(
	matchRepo repositories.MatchRepository,
	gateway advancement.Gateway,
	notifier Notifier,
	archiver Archiver,
	logger *slog.Logger,
) SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &submissionService{
		matchRepo: matchRepo,
		gateway:   gateway,
		notifier:  notifier,
		archiver:  archiver,
		logger:    logger,
		busy:      make(map[uuid.UUID]struct{}),
	}
}

func (s *submissionService) Submit(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int, submittedBy uuid.UUID) (*SubmissionResult, error) {
	if err := validateScores(scorePlayer1, scorePlayer2); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load match %s", matchID)
	}
	if !brackets.IsReady(match) {
		return nil, fmt.Errorf("%w: status %s, %d of 2 players", ErrMatchNotReady, match.Status, match.PlayerCount())
	}

	if !s.acquire(matchID) {
		return nil, ErrConcurrentSubmission
	}
	defer s.release(matchID)

	// a started submission runs to completion even if the caller goes away
	resp, err := s.gateway.SubmitScore(context.WithoutCancel(ctx), advancement.Request{
		MatchID:      matchID,
		Player1Score: scorePlayer1,
		Player2Score: scorePlayer2,
		SubmittedBy:  submittedBy,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "score submission failed", slog.String("match_id", matchID.String()), slog.Any("error", err))
		return nil, fmt.Errorf("failed to submit score for match %s: %w", matchID, err)
	}
	if resp.Rejected() {
		s.logger.WarnContext(ctx, "score submission rejected", slog.String("match_id", matchID.String()), slog.String("reason", resp.Error))
		return nil, &AdvancementRejectedError{Message: resp.Error}
	}

	result := &SubmissionResult{
		MatchID:      matchID,
		TournamentID: match.TournamentID,
		Outcome:      OutcomeAdvanced,
	}
	if resp.Advancement != nil {
		result.Advancement = resp.Advancement.Fields
	}

	if resp.TournamentComplete() {
		result.Outcome = OutcomeTournamentComplete
		s.logger.InfoContext(ctx, "tournament completed", slog.String("tournament_id", match.TournamentID.String()), slog.String("final_match_id", matchID.String()))
		s.notifier.Notify(ctx, match.TournamentID, brackets.MessageTournamentCompleted, result)
		s.archiveBracket(context.WithoutCancel(ctx), match.TournamentID)
	} else {
		s.logger.InfoContext(ctx, "match advanced", slog.String("match_id", matchID.String()), slog.Int("round", match.RoundNumber))
		s.notifier.Notify(ctx, match.TournamentID, brackets.MessageMatchAdvanced, result)
	}
	s.notifier.ScheduleRefresh(ctx, match.TournamentID)

	return result, nil
}

func (s *submissionService) InFlight(matchID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[matchID]
	return ok
}

func (s *submissionService) acquire(matchID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.busy[matchID]; ok {
		return false
	}
	s.busy[matchID] = struct{}{}
	return true
}

func (s *submissionService) release(matchID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, matchID)
}

// archiveBracket failures are logged only; the score is already recorded.
func (s *submissionService) archiveBracket(ctx context.Context, tournamentID uuid.UUID) {
	if s.archiver == nil {
		return
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load bracket for archive", slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
		return
	}
	res, err := s.archiver.Archive(ctx, tournamentID, brackets.Assemble(matches))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to archive final bracket", slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "final bracket archived", slog.String("tournament_id", tournamentID.String()), slog.String("key", res.Key))
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, uuid.UUID, string, interface{}) {}

func (nopNotifier) ScheduleRefresh(context.Context, uuid.UUID) {}
