// Package ranking orders players by a chosen metric and maintains the
// incremental leaderboard entries.
package ranking

import (
	"errors"
	"slices"
	"time"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Metric selects what players are ranked by
type Metric string

const (
	MetricElo              Metric = "elo"
	MetricNetProfit        Metric = "net_profit"
	MetricTotalWinnings    Metric = "total_winnings"
	MetricWinRate          Metric = "win_rate"
	MetricGamesPlayed      Metric = "games_played"
	MetricCurrentStreak    Metric = "current_streak"
	MetricLiarCallAccuracy Metric = "liar_call_accuracy"
)

// ErrUnknownMetric is returned by ParseMetric
var ErrUnknownMetric = errors.New("unknown ranking metric")

// Metrics lists every supported metric
var Metrics = []Metric{
	MetricElo,
	MetricNetProfit,
	MetricTotalWinnings,
	MetricWinRate,
	MetricGamesPlayed,
	MetricCurrentStreak,
	MetricLiarCallAccuracy,
}

// ParseMetric converts a query value to a Metric. Empty means elo.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricElo, nil
	}
	m := Metric(s)
	if !slices.Contains(Metrics, m) {
		return "", ErrUnknownMetric
	}
	return m, nil
}

// netProfitMidpoint splits the unsigned range so that losses sort below
// every profit
const netProfitMidpoint uint64 = 1 << 63

// Value maps a profile onto an unsigned score where larger is better
func Value(metric Metric, rating int, stats model.LifetimeStats) uint64 {
	switch metric {
	case MetricNetProfit:
		if stats.TotalWon >= stats.TotalLost {
			return saturatingAdd(netProfitMidpoint, stats.TotalWon-stats.TotalLost)
		}
		loss := stats.TotalLost - stats.TotalWon
		if loss > netProfitMidpoint-1 {
			return 0
		}
		return (netProfitMidpoint - 1) - loss
	case MetricTotalWinnings:
		return stats.TotalWon
	case MetricWinRate:
		return stats.WinRateBPS()
	case MetricGamesPlayed:
		return stats.GamesPlayed
	case MetricCurrentStreak:
		return stats.CurrentWinStreak
	case MetricLiarCallAccuracy:
		return stats.LiarCallAccuracyBPS()
	default:
		if rating < 0 {
			return 0
		}
		return uint64(rating)
	}
}

// Ranked is one row of a ranking
type Ranked struct {
	Rank    int
	Metric  Metric
	Value   uint64
	Profile model.Profile
}

// Rank sorts profiles by metric, highest first. Ties keep their input order.
// A limit of 0 returns every profile.
func Rank(profiles []model.Profile, metric Metric, limit int) []Ranked {
	rows := make([]Ranked, len(profiles))
	for i, p := range profiles {
		rows[i] = Ranked{
			Metric:  metric,
			Value:   Value(metric, p.Rating, p.Stats),
			Profile: p,
		}
	}
	slices.SortStableFunc(rows, func(a, b Ranked) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// ApplyResult folds one finished game into a leaderboard entry
func ApplyResult(entry *model.LeaderboardEntry, name string, newRating int, won bool, now time.Time) {
	entry.GamesPlayed++
	if won {
		entry.GamesWon++
	}
	entry.WinRateBPS = entry.GamesWon * 10000 / entry.GamesPlayed
	entry.Rating = newRating
	entry.Name = name
	entry.UpdatedAt = now
}

// SortEntries orders leaderboard entries by rating, highest first, ties in
// input order
func SortEntries(entries []model.LeaderboardEntry, limit int) []model.LeaderboardEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b model.LeaderboardEntry) int {
		return b.Rating - a.Rating
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func saturatingAdd(a, b uint64) uint64 {
	if a+b < a {
		return ^uint64(0)
	}
	return a + b
}
