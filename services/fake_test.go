package services

import (
	"context"
	"sync"

	"github.com/Dosada05/billiards-bracket/advancement"
	"github.com/Dosada05/billiards-bracket/models"
	"github.com/Dosada05/billiards-bracket/repositories"
	"github.com/Dosada05/billiards-bracket/storage"
	"github.com/google/uuid"
)

// ------------------------
// Fake Match Repo
// ------------------------

// FakeMatchRepository provides a programmable stub for repositories.MatchRepository.
type FakeMatchRepository struct {
	mu    sync.Mutex
	trace []string

	CreateFunc              func(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListByTournamentFunc    func(ctx context.Context, tournamentID uuid.UUID, rounds []int) ([]*models.Match, error)
	UpdateNextMatchInfoFunc func(ctx context.Context, exec repositories.SQLExecutor, matchID uuid.UUID, winnerNext *uuid.UUID, winnerSlot *int, loserNext *uuid.UUID, loserSlot *int) error
	CorrectScoreFunc        func(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int) (*models.Match, error)
}

func (f *FakeMatchRepository) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeMatchRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMatchRepository) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, exec, match)
	}
	return nil
}

func (f *FakeMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *FakeMatchRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID, rounds []int) ([]*models.Match, error) {
	f.record("ListByTournament")
	if f.ListByTournamentFunc != nil {
		return f.ListByTournamentFunc(ctx, tournamentID, rounds)
	}
	return []*models.Match{}, nil
}

func (f *FakeMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec repositories.SQLExecutor, matchID uuid.UUID, winnerNext *uuid.UUID, winnerSlot *int, loserNext *uuid.UUID, loserSlot *int) error {
	f.record("UpdateNextMatchInfo")
	if f.UpdateNextMatchInfoFunc != nil {
		return f.UpdateNextMatchInfoFunc(ctx, exec, matchID, winnerNext, winnerSlot, loserNext, loserSlot)
	}
	return nil
}

func (f *FakeMatchRepository) CorrectScore(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int) (*models.Match, error) {
	f.record("CorrectScore")
	if f.CorrectScoreFunc != nil {
		return f.CorrectScoreFunc(ctx, matchID, scorePlayer1, scorePlayer2)
	}
	return nil, repositories.ErrMatchNotFound
}

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepository struct {
	mu    sync.Mutex
	trace []string

	GetByIDFunc                   func(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	ListConfirmedParticipantsFunc func(ctx context.Context, tournamentID uuid.UUID) ([]uuid.UUID, error)
	UpdateStatusFunc              func(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, status models.TournamentStatus) error
}

func (f *FakeTournamentRepository) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeTournamentRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeTournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTournamentNotFound
}

func (f *FakeTournamentRepository) ListConfirmedParticipants(ctx context.Context, tournamentID uuid.UUID) ([]uuid.UUID, error) {
	f.record("ListConfirmedParticipants")
	if f.ListConfirmedParticipantsFunc != nil {
		return f.ListConfirmedParticipantsFunc(ctx, tournamentID)
	}
	return []uuid.UUID{}, nil
}

func (f *FakeTournamentRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, status models.TournamentStatus) error {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, exec, id, status)
	}
	return nil
}

// ------------------------
// Fake Transactor
// ------------------------

// FakeTransactor runs the function without a database and records the outcome.
type FakeTransactor struct {
	Committed  int
	RolledBack int
}

func (f *FakeTransactor) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if err := fn(nil); err != nil {
		f.RolledBack++
		return err
	}
	f.Committed++
	return nil
}

// ------------------------
// Fake Gateway
// ------------------------

type FakeGateway struct {
	mu    sync.Mutex
	calls []advancement.Request

	SubmitScoreFunc func(ctx context.Context, req advancement.Request) (*advancement.Response, error)
}

func (f *FakeGateway) SubmitScore(ctx context.Context, req advancement.Request) (*advancement.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, req)
	}
	return &advancement.Response{}, nil
}

func (f *FakeGateway) Calls() []advancement.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]advancement.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// ------------------------
// Fake Notifier
// ------------------------

type notification struct {
	TournamentID uuid.UUID
	Type         string
	Payload      interface{}
}

type FakeNotifier struct {
	mu        sync.Mutex
	Messages  []notification
	Refreshes []uuid.UUID
}

func (f *FakeNotifier) Notify(ctx context.Context, tournamentID uuid.UUID, messageType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, notification{TournamentID: tournamentID, Type: messageType, Payload: payload})
}

func (f *FakeNotifier) ScheduleRefresh(ctx context.Context, tournamentID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refreshes = append(f.Refreshes, tournamentID)
}

func (f *FakeNotifier) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Messages))
	for _, m := range f.Messages {
		out = append(out, m.Type)
	}
	return out
}

// ------------------------
// Fake Archiver
// ------------------------

type FakeArchiver struct {
	ArchiveFunc func(ctx context.Context, tournamentID uuid.UUID, snapshot interface{}) (*storage.UploadResult, error)
	Snapshots   []interface{}
}

func (f *FakeArchiver) Archive(ctx context.Context, tournamentID uuid.UUID, snapshot interface{}) (*storage.UploadResult, error) {
	f.Snapshots = append(f.Snapshots, snapshot)
	if f.ArchiveFunc != nil {
		return f.ArchiveFunc(ctx, tournamentID, snapshot)
	}
	return &storage.UploadResult{Key: "brackets/" + tournamentID.String() + "/final.json"}, nil
}

// ------------------------
// helpers
// ------------------------

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func ptrInt(v int) *int { return &v }

func readyMatch(tournamentID uuid.UUID, round int) *models.Match {
	bt := models.BracketWinners
	switch {
	case round >= 300 || round == 250:
		bt = models.BracketFinal
	case round > 100:
		bt = models.BracketLosers
	}
	return &models.Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		RoundNumber:  round,
		MatchNumber:  1,
		BracketType:  bt,
		Player1ID:    ptrUUID(uuid.New()),
		Player2ID:    ptrUUID(uuid.New()),
		Status:       models.MatchStatusScheduled,
	}
}
