package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func joinRoom(t *testing.T, hub *Hub, room string, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: hub, Send: make(chan []byte, buffer), Room: room}
	require.True(t, hub.Subscribe(client))
	return client
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub, _ := startHub(t)
	room := TournamentRoom(uuid.New())
	other := TournamentRoom(uuid.New())

	a := joinRoom(t, hub, room, 4)
	b := joinRoom(t, hub, room, 4)
	outsider := joinRoom(t, hub, other, 4)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 2 && hub.RoomSize(other) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(room, WebSocketMessage{Type: MessageBracketRefresh, Payload: map[string]string{"tournament_id": "t"}, RoomID: room})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg WebSocketMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, MessageBracketRefresh, msg.Type)
			assert.Equal(t, room, msg.RoomID)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Empty(t, outsider.Send)
}

func TestHubSkipsFullClients(t *testing.T) {
	hub, _ := startHub(t)
	room := TournamentRoom(uuid.New())
	slow := joinRoom(t, hub, room, 1)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(room, WebSocketMessage{Type: MessageMatchAdvanced})
	hub.BroadcastToRoom(room, WebSocketMessage{Type: MessageMatchAdvanced})

	assert.Len(t, slow.Send, 1)
}

func TestHubUnregisterAndShutdown(t *testing.T) {
	hub, cancel := startHub(t)
	room := TournamentRoom(uuid.New())
	leaving := joinRoom(t, hub, room, 1)
	staying := joinRoom(t, hub, room, 1)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 2 }, time.Second, 5*time.Millisecond)

	hub.Leave(leaving)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-leaving.Send
	assert.False(t, open)

	hub.BroadcastToRoom(room, WebSocketMessage{Type: MessageMatchCorrected})
	assert.Len(t, staying.Send, 1)

	cancel()
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, time.Second, 5*time.Millisecond)
	staying.Mu.Lock()
	assert.True(t, staying.IsClosed)
	staying.Mu.Unlock()
}

func TestTournamentRoom(t *testing.T) {
	id := uuid.MustParse("8b0c7a52-3a55-4f37-9f0c-5a3c2fb4a1d1")
	assert.Equal(t, "tournament_8b0c7a52-3a55-4f37-9f0c-5a3c2fb4a1d1", TournamentRoom(id))
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	hub, cancel := startHub(t)
	room := TournamentRoom(uuid.New())
	member := joinRoom(t, hub, room, 1)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-hub.done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		hub.Leave(member)
		assert.False(t, hub.Subscribe(&Client{Hub: hub, Send: make(chan []byte, 1), Room: room}))
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
	assert.Equal(t, 0, hub.RoomSize(room))
}
