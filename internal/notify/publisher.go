// Package notify delivers outbound game notifications to connected players
// over Server-Sent Events and WebSockets.
package notify

import (
	"context"
	"log/slog"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Notifier publishes notifications. Delivery is fire-and-forget.
type Notifier interface {
	Publish(ctx context.Context, n model.Notification)
}

// Encoder renders a notification as the JSON body clients receive
type Encoder func(n model.Notification) ([]byte, error)

// Publisher routes notifications to player hubs
type Publisher struct {
	hubs   *HubManager
	encode Encoder
	logger *slog.Logger
}

// NewPublisher creates a Publisher
func NewPublisher(hubs *HubManager, encode Encoder, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubs:   hubs,
		encode: encode,
		logger: logger.With(slog.String("component", "notify-publisher")),
	}
}

// Ensure Publisher implements Notifier
var _ Notifier = (*Publisher)(nil)

// Publish encodes the notification once and sends it to every recipient.
// No recipients means every connected player.
func (p *Publisher) Publish(ctx context.Context, n model.Notification) {
	data, err := p.encode(n)
	if err != nil {
		p.logger.Error("failed to encode notification",
			slog.String("type", string(n.Type)),
			slog.String("game_id", string(n.GameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	message := Message{Event: string(n.Type), Data: data}
	if len(n.Recipients) == 0 {
		p.hubs.BroadcastAll(message)
		return
	}
	for _, playerID := range n.Recipients {
		p.hubs.Send(playerID, message)
	}
}

// Nop discards every notification
type Nop struct{}

func (Nop) Publish(context.Context, model.Notification) {}
