package advancement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantErr      bool
		wantRejected string
		wantComplete bool
		wantAdvance  bool
	}{
		{name: "rejection", body: `{"error":"Match is not ready"}`, wantRejected: "Match is not ready"},
		{name: "non-string rejection", body: `{"error":{"code":42}}`, wantRejected: `{"code":42}`},
		{name: "empty rejection message", body: `{"error":""}`, wantRejected: "advancement rejected"},
		{name: "null error is not a rejection", body: `{"error":null,"advancement":{"tournament_complete":false}}`, wantAdvance: true},
		{name: "tournament complete", body: `{"advancement":{"tournament_complete":true,"champion_id":"x"}}`, wantAdvance: true, wantComplete: true},
		{name: "camel case completion flag", body: `{"advancement":{"tournamentComplete":true}}`, wantAdvance: true, wantComplete: true},
		{name: "ordinary advancement", body: `{"advancement":{"next_match_id":"abc"}}`, wantAdvance: true},
		{name: "other object", body: `{"success":true}`},
		{name: "empty body", body: ``},
		{name: "json null", body: `null`},
		{name: "bare boolean", body: ` true `},
		{name: "malformed", body: `{"error":`, wantErr: true},
		{name: "malformed scalar", body: `nope`, wantErr: true},
		{name: "advancement number", body: `{"advancement":5}`},
		{name: "advancement boolean", body: `{"advancement":true}`},
		{name: "advancement string", body: `{"advancement":"ok"}`},
		{name: "advancement array", body: `{"advancement":[1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTransport)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRejected, resp.Error)
			assert.Equal(t, tt.wantRejected != "", resp.Rejected())
			assert.Equal(t, tt.wantComplete, resp.TournamentComplete())
			assert.Equal(t, tt.wantAdvance, resp.Advancement != nil)
		})
	}
}

func TestParseResponseKeepsAdvancementFields(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"advancement":{"tournament_complete":false,"winner_id":"p1"}}`))
	require.NoError(t, err)
	require.NotNil(t, resp.Advancement)
	assert.JSONEq(t, `"p1"`, string(resp.Advancement.Fields["winner_id"]))
	assert.False(t, resp.TournamentComplete())
}

func TestNilResponseHelpers(t *testing.T) {
	var resp *Response
	assert.False(t, resp.Rejected())
	assert.False(t, resp.TournamentComplete())
}
