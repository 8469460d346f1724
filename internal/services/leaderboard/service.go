package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/notify"
	"github.com/mcoot/liarsdice-go/internal/ranking"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

// ParticipantResult is one player's outcome from a finished game
type ParticipantResult struct {
	PlayerID  model.PlayerID
	Name      string
	NewRating int
	Won       bool
}

// Service maintains leaderboard entries and serves rankings
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier notify.Notifier
	logger   *slog.Logger

	mu sync.Mutex
}

// New creates a leaderboard service
func New(storage storage.Storage, clock clock.Clock, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "leaderboard")),
	}
}

// RecordGame folds a finished game into each participant's entry and stamps
// it with the game id. Every game must be recorded exactly once; entries are
// not deduplicated.
func (s *Service) RecordGame(ctx context.Context, gameID model.GameID, results []ParticipantResult) ([]model.LeaderboardEntry, error) {
	now := s.clock.Now()
	touched := make([]model.LeaderboardEntry, 0, len(results))

	s.mu.Lock()
	for _, r := range results {
		entry, err := s.storage.GetLeaderboardEntry(ctx, r.PlayerID)
		if errors.Is(err, model.ErrEntryNotFound) {
			entry = model.NewLeaderboardEntry(r.PlayerID)
		} else if err != nil {
			s.mu.Unlock()
			return nil, err
		}

		ranking.ApplyResult(entry, r.Name, r.NewRating, r.Won, now)
		entry.LastGame = gameID
		if err := s.storage.SaveLeaderboardEntry(ctx, entry); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		touched = append(touched, *entry)
	}
	s.mu.Unlock()

	s.logger.Info("leaderboard updated",
		slog.String("game_id", string(gameID)),
		slog.Int("entries", len(touched)),
	)

	s.notifier.Publish(ctx, model.Notification{
		Type:      model.NotificationLeaderboardUpdate,
		GameID:    gameID,
		Payload:   model.LeaderboardUpdatePayload{Entries: touched},
		CreatedAt: now,
	})
	return touched, nil
}

// Ranking ranks every profile by metric. Profiles are ordered by player id
// first so that ties come out the same way every time.
func (s *Service) Ranking(ctx context.Context, metric ranking.Metric, limit int) ([]ranking.Ranked, error) {
	stored, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, len(stored))
	for i, p := range stored {
		profiles[i] = *p
	}
	slices.SortFunc(profiles, func(a, b model.Profile) int {
		return strings.Compare(string(a.PlayerID), string(b.PlayerID))
	})

	return ranking.Rank(profiles, metric, limit), nil
}

// Entries returns the incremental leaderboard sorted by rating
func (s *Service) Entries(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	stored, err := s.storage.ListLeaderboardEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, len(stored))
	for i, e := range stored {
		entries[i] = *e
	}
	slices.SortFunc(entries, func(a, b model.LeaderboardEntry) int {
		return strings.Compare(string(a.PlayerID), string(b.PlayerID))
	})
	return ranking.SortEntries(entries, limit), nil
}
