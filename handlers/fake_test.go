package handlers

import (
	"context"

	"github.com/Dosada05/billiards-bracket/models"
	"github.com/Dosada05/billiards-bracket/services"
	"github.com/google/uuid"
)

type FakeBracketService struct {
	GetBracketFunc             func(ctx context.Context, tournamentID uuid.UUID) (*services.TournamentBracket, error)
	GetMatchFunc               func(ctx context.Context, matchID uuid.UUID) (*services.MatchDetails, error)
	GenerateAndSaveBracketFunc func(ctx context.Context, tournamentID uuid.UUID) (*services.TournamentBracket, error)
}

func (f *FakeBracketService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*services.TournamentBracket, error) {
	return f.GetBracketFunc(ctx, tournamentID)
}

func (f *FakeBracketService) GetMatch(ctx context.Context, matchID uuid.UUID) (*services.MatchDetails, error) {
	return f.GetMatchFunc(ctx, matchID)
}

func (f *FakeBracketService) GenerateAndSaveBracket(ctx context.Context, tournamentID uuid.UUID) (*services.TournamentBracket, error) {
	return f.GenerateAndSaveBracketFunc(ctx, tournamentID)
}

type FakeSubmissionService struct {
	SubmitFunc func(ctx context.Context, matchID uuid.UUID, s1, s2 int, submittedBy uuid.UUID) (*services.SubmissionResult, error)
}

func (f *FakeSubmissionService) Submit(ctx context.Context, matchID uuid.UUID, s1, s2 int, submittedBy uuid.UUID) (*services.SubmissionResult, error) {
	return f.SubmitFunc(ctx, matchID, s1, s2, submittedBy)
}

func (f *FakeSubmissionService) InFlight(matchID uuid.UUID) bool { return false }

type FakeCorrectionService struct {
	CorrectScoreFunc func(ctx context.Context, matchID uuid.UUID, s1, s2 int, role models.UserRole) (*models.Match, error)
}

func (f *FakeCorrectionService) CorrectScore(ctx context.Context, matchID uuid.UUID, s1, s2 int, role models.UserRole) (*models.Match, error) {
	return f.CorrectScoreFunc(ctx, matchID, s1, s2, role)
}
