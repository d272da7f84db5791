package advancement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// SQLGateway calls the procedure directly as a Postgres function returning json.
type SQLGateway struct {
	db      *sql.DB
	query   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSQLGateway builds the gateway. A zero timeout leaves the call bounded only by ctx.
func NewSQLGateway(db *sql.DB, function string, timeout time.Duration, logger *slog.Logger) *SQLGateway {
	if function == "" {
		function = DefaultFunction
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLGateway{
		db:      db,
		query:   fmt.Sprintf(`SELECT %s($1, $2, $3, $4)::text`, pq.QuoteIdentifier(function)),
		timeout: timeout,
		logger:  logger,
	}
}

func (g *SQLGateway) SubmitScore(ctx context.Context, req Request) (*Response, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var body sql.NullString
	err := g.db.QueryRowContext(ctx, g.query, req.MatchID, req.Player1Score, req.Player2Score, req.SubmittedBy).Scan(&body)
	if err != nil {
		resp, callErr := classifyCallError(err)
		if callErr != nil {
			g.logger.ErrorContext(ctx, "advancement function call failed", slog.String("match_id", req.MatchID.String()), slog.Any("error", err))
		}
		return resp, callErr
	}
	if !body.Valid {
		return &Response{}, nil
	}
	return ParseResponse([]byte(body.String))
}

// classifyCallError turns RAISE EXCEPTION (class P0) into a rejection.
// Everything else is a transport failure.
func classifyCallError(err error) (*Response, error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "P0" {
		return &Response{Error: pqErr.Message}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrTransport, err)
}
