// Package advancement wraps the backend procedure that records a match score
// and moves the winner (and loser, where applicable) into the next matches.
//
// The procedure itself is owned by the backend; this package only knows its
// request shape and the three kinds of answers it can give.
package advancement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrTransport marks failures to reach the procedure or to read its answer.
var ErrTransport = errors.New("advancement call failed")

// DefaultFunction is the name of the backend procedure.
const DefaultFunction = "submit_match_score"

type Request struct {
	MatchID      uuid.UUID `json:"p_match_id"`
	Player1Score int       `json:"p_player1_score"`
	Player2Score int       `json:"p_player2_score"`
	SubmittedBy  uuid.UUID `json:"p_submitted_by"`
}

type Advancement struct {
	TournamentComplete bool                       `json:"tournament_complete"`
	Fields             map[string]json.RawMessage `json:"-"`
}

// Response is the interpreted answer of the procedure.
type Response struct {
	// Error is set when the backend refused the submission.
	Error string
	// Advancement is nil when the answer carried no advancement object.
	Advancement *Advancement
	Raw         json.RawMessage
}

func (r *Response) Rejected() bool {
	return r != nil && r.Error != ""
}

func (r *Response) TournamentComplete() bool {
	return r != nil && r.Advancement != nil && r.Advancement.TournamentComplete
}

// Gateway submits a score to the backend.
type Gateway interface {
	SubmitScore(ctx context.Context, req Request) (*Response, error)
}

// ParseResponse interprets a raw procedure answer. Anything that is not an
// object with "error" or "advancement" counts as an ordinary advancement.
func ParseResponse(body []byte) (*Response, error) {
	body = bytes.TrimSpace(body)
	resp := &Response{Raw: json.RawMessage(append([]byte(nil), body...))}
	if len(body) == 0 || body[0] != '{' {
		if len(body) > 0 && !json.Valid(body) {
			return nil, fmt.Errorf("%w: malformed response body", ErrTransport)
		}
		return resp, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %v", ErrTransport, err)
	}

	if raw, ok := fields["error"]; ok && !isNull(raw) {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			// не строка: отдаём как есть, чтобы текст ошибки не потерялся
			msg = string(raw)
		}
		if msg == "" {
			msg = "advancement rejected"
		}
		resp.Error = msg
		return resp, nil
	}

	if raw, ok := fields["advancement"]; ok && !isNull(raw) {
		var adv map[string]json.RawMessage
		if err := json.Unmarshal(raw, &adv); err != nil {
			// не объект: счёт уже записан, это обычное продвижение
			return resp, nil
		}
		resp.Advancement = &Advancement{Fields: adv}
		for _, key := range []string{"tournament_complete", "tournamentComplete"} {
			if v, ok := adv[key]; ok {
				var complete bool
				if err := json.Unmarshal(v, &complete); err == nil && complete {
					resp.Advancement.TournamentComplete = true
				}
			}
		}
	}
	return resp, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
