package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/dependencies/random"
	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/metrics"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/notify"
	"github.com/mcoot/liarsdice-go/internal/rng"
	"github.com/mcoot/liarsdice-go/internal/services/leaderboard"
	"github.com/mcoot/liarsdice-go/internal/services/profile"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 12
	// GameIDAlphabet is the characters used in game ids
	GameIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxIDAttempts = 10
)

// ErrGameIDExhausted is returned when no unused game id could be generated
var ErrGameIDExhausted = errors.New("could not allocate a game id")

// Controller drives games through their lifecycle. Every operation on a
// game runs under that game's lock: load, transition, settle, save, then
// notify.
type Controller struct {
	storage     storage.Storage
	ledger      ledger.Ledger
	profiles    *profile.Service
	leaderboard *leaderboard.Service
	notifier    notify.Notifier
	clock       clock.Clock
	random      random.Random
	mixer       *rng.Mixer
	logger      *slog.Logger

	locks gameLocks
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	ledger ledger.Ledger,
	profiles *profile.Service,
	leaderboard *leaderboard.Service,
	notifier notify.Notifier,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		ledger:      ledger,
		profiles:    profiles,
		leaderboard: leaderboard,
		notifier:    notifier,
		clock:       clock,
		random:      random,
		mixer:       rng.NewMixer(clock, random),
		logger:      logger.With(slog.String("component", "game")),
		locks:       gameLocks{m: make(map[model.GameID]*gameLock)},
	}
}

// CreateGame opens an empty table
func (c *Controller) CreateGame(ctx context.Context, lobbyID model.LobbyID, stake int64) (*model.Game, error) {
	if stake < 0 {
		return nil, model.ErrInvalidAmount
	}

	gameID, err := c.newGameID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:        gameID,
		LobbyID:   lobbyID,
		Phase:     model.PhaseWaitingForPlayers,
		Stake:     stake,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	metrics.ActiveGames.Inc()

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("lobby_id", string(lobbyID)),
		slog.Int64("stake", stake),
	)
	return game, nil
}

func (c *Controller) newGameID(ctx context.Context) (model.GameID, error) {
	for range maxIDAttempts {
		id := model.GameID(c.random.String(GameIDLength, GameIDAlphabet))
		if id == "" {
			continue
		}
		exists, err := c.storage.GameExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", ErrGameIDExhausted
}

// AddPlayer seats a player, snapshotting their profile's name and rating
func (c *Controller) AddPlayer(ctx context.Context, gameID model.GameID, p *model.Profile) (*model.Game, error) {
	return c.update(ctx, gameID, func(tx *txn) error {
		return tx.game.AddPlayer(model.Seat{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Rating:   p.Rating,
		})
	})
}

// StartGame deals everyone in and opens the first commit phase
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		if err := tx.game.Start(c.clock.Now()); err != nil {
			return err
		}
		tx.emit(model.NotificationGameStarted, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GamesStarted.Inc()
	c.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.Int("players", len(game.Seats)),
	)
	return game, nil
}

// AssignMatch creates and starts a game for a matched pair
func (c *Controller) AssignMatch(ctx context.Context, lobbyID model.LobbyID, stake int64, a, b *model.Profile) (*model.Game, error) {
	game, err := c.CreateGame(ctx, lobbyID, stake)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddPlayer(ctx, game.ID, a); err != nil {
		return nil, err
	}
	if _, err := c.AddPlayer(ctx, game.ID, b); err != nil {
		return nil, err
	}
	return c.StartGame(ctx, game.ID)
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListActiveGames returns every game that is not over
func (c *Controller) ListActiveGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := c.storage.ListActiveGames(ctx)
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		game, err := c.storage.GetGame(ctx, id)
		if errors.Is(err, model.ErrGameNotFound) {
			continue // expired
		}
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// txn collects what an operation did to a game so the side effects can run
// once the new state is saved
type txn struct {
	game  *model.Game
	notes []model.Notification

	// Challenge loser or forfeiter, reported in the game result
	loser model.PlayerID

	// Players to notify who no longer hold a seat
	extraRecipients []model.PlayerID

	// Rounds settled by this operation, credited to profiles after the save
	rounds []model.RoundOutcome
}

func (tx *txn) emit(t model.NotificationType, payload any) {
	tx.notes = append(tx.notes, model.Notification{Type: t, Payload: payload})
}

// update runs fn against the stored game under the game's lock. If fn
// fails nothing is saved. When the game ends inside fn the stakes are
// settled before the save, so a ledger failure leaves the stored game as it
// was. Everything else the result touches is written only once the game is
// saved.
func (c *Controller) update(ctx context.Context, gameID model.GameID, fn func(tx *txn) error) (*model.Game, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	wasOver := game.IsOver()

	tx := &txn{game: game}
	if err := fn(tx); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game.UpdatedAt = now
	ended := !wasOver && game.IsOver()

	var settlement *model.Settlement
	if ended {
		settlement, err = c.prepareSettlement(ctx, game, tx.loser)
		if err != nil {
			c.logger.Error("failed to settle game",
				slog.String("game_id", string(game.ID)),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	for _, outcome := range tx.rounds {
		c.recordRound(ctx, game.ID, outcome)
	}

	if ended {
		c.gameEnded(tx, settlement)
	}

	recipients := append(game.Participants(), tx.extraRecipients...)
	for _, n := range tx.notes {
		n.GameID = game.ID
		n.Recipients = recipients
		n.Game = game.Clone()
		n.CreatedAt = now
		c.notifier.Publish(ctx, n)
	}

	if ended {
		// The sweeper retries whatever is left undone
		if err := c.completeSettlement(ctx, settlement); err != nil {
			c.logger.Error("settlement incomplete",
				slog.String("game_id", string(game.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
	return game, nil
}

// gameLocks is a mutex per game id, dropped once nobody holds or waits on it
type gameLocks struct {
	mu sync.Mutex
	m  map[model.GameID]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func (l *gameLocks) lock(id model.GameID) func() {
	l.mu.Lock()
	entry, ok := l.m[id]
	if !ok {
		entry = &gameLock{}
		l.m[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
