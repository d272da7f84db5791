package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Notifier pushes bracket changes to subscribers of a tournament.
type Notifier interface {
	Notify(ctx context.Context, tournamentID uuid.UUID, messageType string, payload interface{})
	// ScheduleRefresh asks subscribers to reload the bracket now and once more
	// after the advancement has had time to propagate.
	ScheduleRefresh(ctx context.Context, tournamentID uuid.UUID)
}

// Broadcaster is implemented by *brackets.Hub.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
	RoomSize(roomID string) int
}

type RefreshPayload struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	Delayed      bool      `json:"delayed"`
}

type hubNotifier struct {
	hub       Broadcaster
	scheduler gocron.Scheduler
	delay     time.Duration
	logger    *slog.Logger
}

// NewHubNotifier returns a Notifier backed by the websocket hub. A nil scheduler
// or a non-positive delay disables the delayed refresh.
func NewHubNotifier(hub Broadcaster, scheduler gocron.Scheduler, delay time.Duration, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &hubNotifier{hub: hub, scheduler: scheduler, delay: delay, logger: logger}
}

func (n *hubNotifier) Notify(ctx context.Context, tournamentID uuid.UUID, messageType string, payload interface{}) {
	roomID := brackets.TournamentRoom(tournamentID)
	n.hub.BroadcastToRoom(roomID, brackets.WebSocketMessage{
		Type:    messageType,
		Payload: payload,
		RoomID:  roomID,
	})
	n.logger.DebugContext(ctx, "bracket notification sent", slog.String("room", roomID), slog.String("type", messageType))
}

func (n *hubNotifier) ScheduleRefresh(ctx context.Context, tournamentID uuid.UUID) {
	n.Notify(ctx, tournamentID, brackets.MessageBracketRefresh, RefreshPayload{TournamentID: tournamentID})

	if n.scheduler == nil || n.delay <= 0 {
		return
	}
	// без подписчиков обновлять некого, новые клиенты сами загрузят свежую сетку
	if n.hub.RoomSize(brackets.TournamentRoom(tournamentID)) == 0 {
		return
	}
	_, err := n.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(n.delay))),
		gocron.NewTask(func() {
			n.Notify(context.Background(), tournamentID, brackets.MessageBracketRefresh, RefreshPayload{TournamentID: tournamentID, Delayed: true})
		}),
		gocron.WithName("bracket-refresh-"+tournamentID.String()),
		gocron.WithTags(tournamentID.String()),
	)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to schedule delayed bracket refresh", slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
	}
}
