package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/liarsdice-go/internal/model"
)

func profile(id string, rating int, stats model.LifetimeStats) model.Profile {
	return model.Profile{PlayerID: model.PlayerID(id), Name: id, Rating: rating, Stats: stats}
}

func TestRankByElo(t *testing.T) {
	profiles := []model.Profile{
		profile("a", 1100, model.LifetimeStats{}),
		profile("b", 1300, model.LifetimeStats{}),
		profile("c", 1200, model.LifetimeStats{}),
	}

	rows := Rank(profiles, MetricElo, 0)
	require.Len(t, rows, 3)
	assert.Equal(t, model.PlayerID("b"), rows[0].Profile.PlayerID)
	assert.Equal(t, model.PlayerID("c"), rows[1].Profile.PlayerID)
	assert.Equal(t, model.PlayerID("a"), rows[2].Profile.PlayerID)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	profiles := []model.Profile{
		profile("first", 1200, model.LifetimeStats{}),
		profile("second", 1200, model.LifetimeStats{}),
		profile("third", 1200, model.LifetimeStats{}),
	}

	rows := Rank(profiles, MetricElo, 0)
	assert.Equal(t, model.PlayerID("first"), rows[0].Profile.PlayerID)
	assert.Equal(t, model.PlayerID("second"), rows[1].Profile.PlayerID)
	assert.Equal(t, model.PlayerID("third"), rows[2].Profile.PlayerID)
}

func TestRankLimit(t *testing.T) {
	profiles := []model.Profile{
		profile("a", 1000, model.LifetimeStats{}),
		profile("b", 1100, model.LifetimeStats{}),
		profile("c", 1200, model.LifetimeStats{}),
	}

	rows := Rank(profiles, MetricElo, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, model.PlayerID("c"), rows[0].Profile.PlayerID)

	assert.Len(t, Rank(profiles, MetricElo, 10), 3)
	assert.Empty(t, Rank(nil, MetricElo, 0))
}

func TestRankNetProfitOrdersLossesBelowProfits(t *testing.T) {
	profiles := []model.Profile{
		profile("small-loss", 1200, model.LifetimeStats{TotalWon: 10, TotalLost: 20}),
		profile("big-profit", 1200, model.LifetimeStats{TotalWon: 500, TotalLost: 0}),
		profile("even", 1200, model.LifetimeStats{TotalWon: 5, TotalLost: 5}),
		profile("big-loss", 1200, model.LifetimeStats{TotalWon: 0, TotalLost: 900}),
		profile("small-profit", 1200, model.LifetimeStats{TotalWon: 3, TotalLost: 1}),
	}

	rows := Rank(profiles, MetricNetProfit, 0)
	var order []model.PlayerID
	for _, r := range rows {
		order = append(order, r.Profile.PlayerID)
	}
	assert.Equal(t, []model.PlayerID{"big-profit", "small-profit", "even", "small-loss", "big-loss"}, order)
}

func TestValue(t *testing.T) {
	stats := model.LifetimeStats{
		GamesPlayed:         4,
		GamesWon:            1,
		CurrentWinStreak:    1,
		SuccessfulLiarCalls: 3,
		FailedLiarCalls:     1,
		TotalWon:            70,
	}

	assert.Equal(t, uint64(1250), Value(MetricElo, 1250, stats))
	assert.Equal(t, uint64(2500), Value(MetricWinRate, 1250, stats))
	assert.Equal(t, uint64(4), Value(MetricGamesPlayed, 1250, stats))
	assert.Equal(t, uint64(1), Value(MetricCurrentStreak, 1250, stats))
	assert.Equal(t, uint64(7500), Value(MetricLiarCallAccuracy, 1250, stats))
	assert.Equal(t, uint64(70), Value(MetricTotalWinnings, 1250, stats))
	assert.Equal(t, netProfitMidpoint+70, Value(MetricNetProfit, 1250, stats))
	assert.Equal(t, netProfitMidpoint-1-30, Value(MetricNetProfit, 0, model.LifetimeStats{TotalLost: 30}))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricElo, m)

	m, err = ParseMetric("liar_call_accuracy")
	require.NoError(t, err)
	assert.Equal(t, MetricLiarCallAccuracy, m)

	_, err = ParseMetric("luck")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestApplyResult(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := model.NewLeaderboardEntry("p1")

	ApplyResult(entry, "Alice", 1216, true, now)
	assert.Equal(t, uint64(1), entry.GamesPlayed)
	assert.Equal(t, uint64(1), entry.GamesWon)
	assert.Equal(t, uint64(10000), entry.WinRateBPS)
	assert.Equal(t, 1216, entry.Rating)
	assert.Equal(t, "Alice", entry.Name)

	ApplyResult(entry, "Alice B", 1200, false, now)
	assert.Equal(t, uint64(2), entry.GamesPlayed)
	assert.Equal(t, uint64(1), entry.GamesWon)
	assert.Equal(t, uint64(5000), entry.WinRateBPS)
	assert.Equal(t, 1200, entry.Rating)
	assert.Equal(t, "Alice B", entry.Name)
}

func TestSortEntries(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{PlayerID: "a", Rating: 1200},
		{PlayerID: "b", Rating: 1300},
		{PlayerID: "c", Rating: 1200},
	}
	sorted := SortEntries(entries, 0)
	assert.Equal(t, model.PlayerID("b"), sorted[0].PlayerID)
	assert.Equal(t, model.PlayerID("a"), sorted[1].PlayerID)
	assert.Equal(t, model.PlayerID("c"), sorted[2].PlayerID)
	assert.Len(t, SortEntries(entries, 1), 1)
	assert.Equal(t, model.PlayerID("a"), entries[0].PlayerID)
}
