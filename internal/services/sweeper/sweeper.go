// Package sweeper drives reveal timeouts. Nothing in a game moves on its
// own, so a ticker periodically asks the game controller to settle every
// challenge whose reveal window has closed. It also finishes game
// settlements that stopped part way through.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/services/game"
)

// DefaultInterval is how often games are checked when no interval is configured
const DefaultInterval = 5 * time.Second

// SessionCleaner forgets expired session state
type SessionCleaner interface {
	CleanExpiredSessions()
}

// Sweeper periodically applies reveal timeouts
type Sweeper struct {
	games    *game.Controller
	sessions SessionCleaner
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Sweeper. sessions may be nil.
func New(games *game.Controller, sessions SessionCleaner, clock clock.Clock, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		games:    games,
		sessions: sessions,
		clock:    clock,
		interval: interval,
		logger:   logger.With(slog.String("component", "sweeper")),
	}
}

// Run sweeps on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Sweep checks every game waiting on reveals and returns how many players
// were eliminated for missing the deadline
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	if s.sessions != nil {
		s.sessions.CleanExpiredSessions()
	}

	if settled, err := s.games.SettlePending(ctx); err != nil {
		s.logger.Error("settlement retry failed", slog.String("error", err.Error()))
	} else if settled > 0 {
		s.logger.Info("settlements completed", slog.Int("count", settled))
	}

	games, err := s.games.ListActiveGames(ctx)
	if err != nil {
		return 0, err
	}

	timedOut := 0
	for _, g := range games {
		if g.Phase != model.PhaseRevealing || !clock.Expired(s.clock, g.RevealDeadline) {
			continue
		}

		res, err := s.games.CheckTimeout(ctx, g.ID)
		if errors.Is(err, model.ErrWrongPhase) || errors.Is(err, model.ErrGameNotFound) {
			// Settled by a reveal since we listed it
			continue
		}
		if err != nil {
			s.logger.Error("timeout check failed",
				slog.String("game_id", string(g.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		timedOut += len(res.TimedOut)
	}
	return timedOut, nil
}
