package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebSocketServer(t *testing.T, origins []string) (*httptest.Server, *brackets.Hub) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	hub := brackets.NewHub(logger)
	go hub.Run(ctx)

	r := chi.NewRouter()
	r.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, origins, logger).ServeWs)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub
}

func wsURL(srv *httptest.Server, tournamentID string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/" + tournamentID
}

func TestServeWsDeliversRoomMessages(t *testing.T) {
	srv, hub := newWebSocketServer(t, nil)
	tournamentID := uuid.New()
	room := brackets.TournamentRoom(tournamentID)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, tournamentID.String()), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    brackets.MessageTournamentCompleted,
		Payload: map[string]string{"tournament_id": tournamentID.String()},
		RoomID:  room,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg brackets.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, brackets.MessageTournamentCompleted, msg.Type)
	assert.Equal(t, room, msg.RoomID)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, time.Second, 5*time.Millisecond)
}

func TestServeWsRejectsForeignOrigin(t *testing.T) {
	srv, _ := newWebSocketServer(t, []string{"https://club.example"})
	tournamentID := uuid.NewString()

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tournamentID), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://club.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, tournamentID), header)
	require.NoError(t, err)
	conn.Close()
}

func TestServeWsInvalidTournament(t *testing.T) {
	srv, _ := newWebSocketServer(t, nil)
	resp, err := http.Get(srv.URL + "/ws/tournaments/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeWsAfterHubStopped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	hub := brackets.NewHub(logger)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	r := chi.NewRouter()
	r.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, nil, logger).ServeWs)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, uuid.NewString()), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}
