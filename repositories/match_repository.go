package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/billiards-bracket/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNotCompleted      = errors.New("match is not completed")
	ErrMatchConflict          = errors.New("match with this round and number already exists")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID uuid.UUID, rounds []int) ([]*models.Match, error)
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, winnerNext *uuid.UUID, winnerSlot *int, loserNext *uuid.UUID, loserSlot *int) error
	// CorrectScore overwrites the scores of a completed match and records the edit.
	CorrectScore(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int) (*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, round_number, match_number, bracket_type, branch_type,
	player1_id, player2_id, winner_id, status, score_player1, score_player2,
	assigned_table_number, score_edit_count, last_score_edit, created_at,
	winner_next_match_id, winner_to_slot, loser_next_match_id, loser_to_slot`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner, match *models.Match) error {
	return row.Scan(
		&match.ID,
		&match.TournamentID,
		&match.RoundNumber,
		&match.MatchNumber,
		&match.BracketType,
		&match.BranchType,
		&match.Player1ID,
		&match.Player2ID,
		&match.WinnerID,
		&match.Status,
		&match.ScorePlayer1,
		&match.ScorePlayer2,
		&match.AssignedTableNumber,
		&match.ScoreEditCount,
		&match.LastScoreEdit,
		&match.CreatedAt,
		&match.WinnerNextMatchID,
		&match.WinnerToSlot,
		&match.LoserNextMatchID,
		&match.LoserToSlot,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	query := `
		INSERT INTO matches
			(id, tournament_id, round_number, match_number, bracket_type, branch_type,
			 player1_id, player2_id, status, assigned_table_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := exec.QueryRowContext(ctx, query,
		match.ID,
		match.TournamentID,
		match.RoundNumber,
		match.MatchNumber,
		match.BracketType,
		match.BranchType,
		match.Player1ID,
		match.Player2ID,
		match.Status,
		match.AssignedTableNumber,
	).Scan(&match.CreatedAt)

	return handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, id), match); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %s: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID, rounds []int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if len(rounds) > 0 {
		queryBuilder.WriteString(" AND round_number = ANY($")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		queryBuilder.WriteString(")")
		args = append(args, pq.Array(rounds))
	}
	queryBuilder.WriteString(" ORDER BY round_number ASC, match_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, winnerNext *uuid.UUID, winnerSlot *int, loserNext *uuid.UUID, loserSlot *int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET winner_next_match_id = $1, winner_to_slot = $2, loser_next_match_id = $3, loser_to_slot = $4
		WHERE id = $5`
	result, err := exec.ExecContext(ctx, query, winnerNext, winnerSlot, loserNext, loserSlot, matchID)
	if err != nil {
		return fmt.Errorf("UpdateNextMatchInfo: failed to execute query for match %s: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CorrectScore(ctx context.Context, matchID uuid.UUID, scorePlayer1, scorePlayer2 int) (*models.Match, error) {
	query := `
		UPDATE matches
		SET score_player1 = $1, score_player2 = $2,
		    score_edit_count = score_edit_count + 1, last_score_edit = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + matchColumns

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, scorePlayer1, scorePlayer2, time.Now().UTC(), matchID, models.MatchStatusCompleted), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// различаем "нет матча" и "матч ещё не завершён"
			if _, getErr := r.GetByID(ctx, matchID); getErr != nil {
				return nil, getErr
			}
			return nil, ErrMatchNotCompleted
		}
		return nil, fmt.Errorf("failed to correct score for match %s: %w", matchID, err)
	}
	return match, nil
}

func handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", ErrMatchConflict, pqErr.Detail)
		case "foreign_key_violation":
			if pqErr.Constraint == "matches_tournament_id_fkey" {
				return ErrMatchTournamentInvalid
			}
		}
	}
	return err
}
