package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/Dosada05/billiards-bracket/models"
	"github.com/Dosada05/billiards-bracket/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TournamentBracket is the read model served to bracket pages.
type TournamentBracket struct {
	Tournament    *models.Tournament   `json:"tournament"`
	Bracket       brackets.BracketView `json:"bracket"`
	ReadyMatchIDs []uuid.UUID          `json:"ready_match_ids"`
	ChampionID    *uuid.UUID           `json:"champion_id,omitempty"`
}

type MatchDetails struct {
	*models.Match
	Stage brackets.Stage `json:"stage,omitempty"`
	Ready bool           `json:"ready"`
}

type BracketService interface {
	GetBracket(ctx context.Context, tournamentID uuid.UUID) (*TournamentBracket, error)
	GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchDetails, error)
	// GenerateAndSaveBracket creates the full match skeleton of an upcoming
	// tournament and moves it to the ongoing state.
	GenerateAndSaveBracket(ctx context.Context, tournamentID uuid.UUID) (*TournamentBracket, error)
}

type bracketService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.BracketGenerator
	notifier       Notifier
	logger         *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.BracketGenerator,
	notifier Notifier,
	logger *slog.Logger,
) BracketService {
	if generator == nil {
		generator = brackets.NewDoubleEliminationGenerator()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		generator:      generator,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*TournamentBracket, error) {
	var (
		tournament *models.Tournament
		matches    []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			return handleRepositoryError(err, "failed to load tournament %s", tournamentID)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		list, err := s.matchRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return handleRepositoryError(err, "failed to list matches of tournament %s", tournamentID)
		}
		matches = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &TournamentBracket{
		Tournament:    tournament,
		Bracket:       brackets.Assemble(matches),
		ReadyMatchIDs: make([]uuid.UUID, 0),
	}
	for _, m := range matches {
		if m == nil {
			continue
		}
		// нарушения не мешают отображению, только логируются
		if err := brackets.ValidateMatch(m); err != nil {
			s.logger.WarnContext(ctx, "match violates bracket invariants",
				slog.String("match_id", m.ID.String()),
				slog.Int("round", m.RoundNumber),
				slog.Any("error", err),
			)
		}
		if brackets.IsReady(m) {
			result.ReadyMatchIDs = append(result.ReadyMatchIDs, m.ID)
		}
	}
	if final := result.Bracket.DecidedFinal(); final != nil {
		result.ChampionID = final.WinnerID
	}
	return result, nil
}

func (s *bracketService) GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchDetails, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load match %s", matchID)
	}
	details := &MatchDetails{Match: match, Ready: brackets.IsReady(match)}
	spec, err := brackets.Classify(match.RoundNumber)
	if err != nil {
		s.logger.WarnContext(ctx, "match has unknown round", slog.String("match_id", matchID.String()), slog.Any("error", err))
		return details, nil
	}
	details.Stage = spec.Stage
	return details, nil
}

func (s *bracketService) GenerateAndSaveBracket(ctx context.Context, tournamentID uuid.UUID) (*TournamentBracket, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load tournament %s", tournamentID)
	}
	if tournament.Status != models.TournamentStatusUpcoming {
		return nil, fmt.Errorf("%w: tournament %s is %s", ErrTournamentNotUpcoming, tournamentID, tournament.Status)
	}

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to check existing matches of tournament %s", tournamentID)
	}
	if len(existing) > 0 {
		return nil, ErrBracketAlreadyExists
	}

	participants, err := s.tournamentRepo.ListConfirmedParticipants(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to list confirmed participants of tournament %s", tournamentID)
	}
	if len(participants) != brackets.DoubleEliminationEntrants {
		return nil, fmt.Errorf("%w: need %d, found %d", ErrWrongEntrantCount, brackets.DoubleEliminationEntrants, len(participants))
	}
	tournament.Participants = participants

	s.logger.InfoContext(ctx, "starting bracket generation",
		slog.String("tournament_id", tournamentID.String()),
		slog.String("generator", s.generator.GetName()),
		slog.Int("participants", len(participants)),
	)

	skeleton, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament:   tournament,
		Participants: participants,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrWrongEntrantCount) || errors.Is(err, brackets.ErrDuplicateEntrant) {
			return nil, fmt.Errorf("%w: %v", ErrWrongEntrantCount, err)
		}
		return nil, fmt.Errorf("failed to generate bracket structure for tournament %s: %w", tournamentID, err)
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		ids := make(map[string]uuid.UUID, len(skeleton))

		// первый проход: создаём все матчи-заготовки
		for _, bm := range skeleton {
			match := &models.Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				RoundNumber:  bm.Round,
				MatchNumber:  bm.OrderInRound,
				BracketType:  bm.BracketType,
				BranchType:   bm.BranchType,
				Player1ID:    bm.Participant1ID,
				Player2ID:    bm.Participant2ID,
				Status:       bm.Status(),
			}
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				return handleRepositoryError(err, "failed to create match %s", bm.UID)
			}
			ids[bm.UID] = match.ID
		}

		// второй проход: связи для продвижения победителя и проигравшего
		for _, bm := range skeleton {
			if bm.WinnerToUID == nil && bm.LoserToUID == nil {
				continue
			}
			var winnerNext, loserNext *uuid.UUID
			var winnerSlot, loserSlot *int
			if bm.WinnerToUID != nil {
				id, slot := ids[*bm.WinnerToUID], bm.WinnerToSlot
				winnerNext, winnerSlot = &id, &slot
			}
			if bm.LoserToUID != nil {
				id, slot := ids[*bm.LoserToUID], bm.LoserToSlot
				loserNext, loserSlot = &id, &slot
			}
			if err := s.matchRepo.UpdateNextMatchInfo(ctx, exec, ids[bm.UID], winnerNext, winnerSlot, loserNext, loserSlot); err != nil {
				return handleRepositoryError(err, "failed to link match %s", bm.UID)
			}
		}

		return s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.TournamentStatusOngoing)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "bracket generation rolled back", slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "bracket saved", slog.String("tournament_id", tournamentID.String()), slog.Int("matches", len(skeleton)))
	s.notifier.ScheduleRefresh(ctx, tournamentID)

	return s.GetBracket(ctx, tournamentID)
}
