package matchmaking

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/metrics"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/notify"
	"github.com/mcoot/liarsdice-go/internal/services/game"
	"github.com/mcoot/liarsdice-go/internal/services/profile"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

// Config selects the lobby a controller serves
type Config struct {
	LobbyID model.LobbyID
	Stake   int64 // tokens each loser pays the winner; 0 disables the balance check
}

// DefaultConfig returns the main unstaked lobby
func DefaultConfig() Config {
	return Config{LobbyID: model.DefaultLobbyID}
}

// Result reports what FindMatch did
type Result struct {
	QueueSize int
	Game      *model.Game       // set when the player was paired straight away
	Opponent  *model.QueueEntry // set with Game
}

// Controller runs the FIFO matchmaking queue for one lobby
type Controller struct {
	storage  storage.Storage
	games    *game.Controller
	profiles *profile.Service
	ledger   ledger.Ledger
	notifier notify.Notifier
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	// Serialises queue read-modify-write for this lobby
	mu sync.Mutex
}

// NewController creates a matchmaking Controller
func NewController(
	storage storage.Storage,
	games *game.Controller,
	profiles *profile.Service,
	ledger ledger.Ledger,
	notifier notify.Notifier,
	clock clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.LobbyID == "" {
		cfg.LobbyID = model.DefaultLobbyID
	}
	return &Controller{
		storage:  storage,
		games:    games,
		profiles: profiles,
		ledger:   ledger,
		notifier: notifier,
		clock:    clock,
		logger:   logger.With(slog.String("component", "matchmaking"), slog.String("lobby_id", string(cfg.LobbyID))),
		cfg:      cfg,
	}
}

// LobbyID returns the lobby this controller serves
func (c *Controller) LobbyID() model.LobbyID {
	return c.cfg.LobbyID
}

// FindMatch queues the player and pairs the two longest-waiting players
// when there are enough of them
func (c *Controller) FindMatch(ctx context.Context, player model.Player) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.profiles.EnsureProfile(ctx, player.ID, player.DisplayName)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case model.StatusSearching:
		return nil, model.ErrAlreadyQueued
	case model.StatusPlaying:
		return nil, model.ErrAlreadyInGame
	}

	if c.cfg.Stake > 0 {
		balance, err := c.ledger.Balance(ctx, player.ID)
		if err != nil {
			return nil, err
		}
		if balance < c.cfg.Stake {
			return nil, model.ErrInsufficientBalance
		}
	}

	queue, err := c.storage.GetQueue(ctx, c.cfg.LobbyID)
	if err != nil {
		return nil, err
	}
	if queue.Contains(player.ID) {
		return nil, model.ErrAlreadyQueued
	}

	now := c.clock.Now()
	queue.Enqueue(model.QueueEntry{
		PlayerID:   player.ID,
		Name:       p.Name,
		Rating:     p.Rating,
		EnqueuedAt: now,
	})
	queue.UpdatedAt = now
	if err := c.storage.SaveQueue(ctx, queue); err != nil {
		return nil, err
	}
	if err := c.profiles.SetStatus(ctx, player.ID, model.StatusSearching, ""); err != nil {
		return nil, err
	}

	c.logger.Info("player queued",
		slog.String("player_id", string(player.ID)),
		slog.Int("rating", p.Rating),
		slog.Int("queue_size", queue.Len()),
	)
	c.publishQueue(ctx, queue)

	result := &Result{QueueSize: queue.Len()}
	first, second, ok := queue.DequeuePair()
	if !ok {
		return result, nil
	}

	g, err := c.pair(ctx, queue, first, second)
	if err != nil {
		return nil, err
	}

	result.Game = g
	result.QueueSize = queue.Len()
	result.Opponent = &first
	if first.PlayerID == player.ID {
		result.Opponent = &second
	}
	return result, nil
}

// pair starts a game for two dequeued entries. If the game cannot be
// started both go back to the front of the queue.
func (c *Controller) pair(ctx context.Context, queue *model.MatchQueue, first, second model.QueueEntry) (*model.Game, error) {
	restore := func() {
		queue.Entries = slices.Insert(queue.Entries, 0, first, second)
		queue.Count = len(queue.Entries)
		if err := c.storage.SaveQueue(ctx, queue); err != nil {
			c.logger.Error("failed to restore queue",
				slog.String("error", err.Error()),
			)
		}
	}

	pa, err := c.profiles.GetProfile(ctx, first.PlayerID)
	if err != nil {
		restore()
		return nil, err
	}
	pb, err := c.profiles.GetProfile(ctx, second.PlayerID)
	if err != nil {
		restore()
		return nil, err
	}

	g, err := c.games.AssignMatch(ctx, c.cfg.LobbyID, c.cfg.Stake, pa, pb)
	if err != nil {
		c.logger.Error("failed to start matched game",
			slog.String("player_a", string(first.PlayerID)),
			slog.String("player_b", string(second.PlayerID)),
			slog.String("error", err.Error()),
		)
		restore()
		return nil, err
	}

	queue.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveQueue(ctx, queue); err != nil {
		return nil, err
	}

	for _, pair := range [][2]model.QueueEntry{{first, second}, {second, first}} {
		self, opponent := pair[0], pair[1]
		if err := c.profiles.SetStatus(ctx, self.PlayerID, model.StatusPlaying, g.ID); err != nil {
			return nil, err
		}
		c.notifier.Publish(ctx, model.Notification{
			Type:       model.NotificationMatchFound,
			GameID:     g.ID,
			Recipients: []model.PlayerID{self.PlayerID},
			Game:       g,
			Payload: model.MatchFoundPayload{
				GameID:         g.ID,
				Opponent:       opponent.PlayerID,
				OpponentName:   opponent.Name,
				OpponentRating: opponent.Rating,
			},
			CreatedAt: c.clock.Now(),
		})
	}

	c.logger.Info("match found",
		slog.String("game_id", string(g.ID)),
		slog.String("player_a", string(first.PlayerID)),
		slog.String("player_b", string(second.PlayerID)),
		slog.Int("elo_distance", first.EloDistance(second)),
	)
	c.publishQueue(ctx, queue)
	return g, nil
}

// CancelMatch takes the player out of the queue
func (c *Controller) CancelMatch(ctx context.Context, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue, err := c.storage.GetQueue(ctx, c.cfg.LobbyID)
	if err != nil {
		return err
	}
	if !queue.Cancel(playerID) {
		return model.ErrNotQueued
	}
	queue.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveQueue(ctx, queue); err != nil {
		return err
	}
	if err := c.profiles.SetStatus(ctx, playerID, model.StatusIdle, ""); err != nil {
		return err
	}

	c.logger.Info("player left queue",
		slog.String("player_id", string(playerID)),
		slog.Int("queue_size", queue.Len()),
	)
	c.publishQueue(ctx, queue)
	return nil
}

// Status returns the lobby's queue
func (c *Controller) Status(ctx context.Context) (*model.MatchQueue, error) {
	return c.storage.GetQueue(ctx, c.cfg.LobbyID)
}

func (c *Controller) publishQueue(ctx context.Context, queue *model.MatchQueue) {
	metrics.QueueSize.WithLabelValues(string(c.cfg.LobbyID)).Set(float64(queue.Len()))
	c.notifier.Publish(ctx, model.Notification{
		Type: model.NotificationQueueUpdate,
		Payload: model.QueueUpdatePayload{
			LobbyID: c.cfg.LobbyID,
			Size:    queue.Len(),
		},
		CreatedAt: c.clock.Now(),
	})
}
