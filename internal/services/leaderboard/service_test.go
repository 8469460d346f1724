package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/ranking"
	"github.com/mcoot/liarsdice-go/internal/storage/memory"
	"github.com/mcoot/liarsdice-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	notifier *mocks.MockNotifier
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.notifier = mocks.NewMockNotifier()
	s.service = New(s.storage, s.clock, s.notifier, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) saveProfile(id model.PlayerID, rating int, stats model.LifetimeStats) {
	p := model.NewProfile(id, string(id), s.clock.Now())
	p.Rating = rating
	p.Stats = stats
	s.Require().NoError(s.storage.SaveProfile(s.ctx, p))
}

func (s *ServiceSuite) TestRecordGameCreatesAndUpdatesEntries() {
	touched, err := s.service.RecordGame(s.ctx, "G1", []ParticipantResult{
		{PlayerID: "a", Name: "Alice", NewRating: 1216, Won: true},
		{PlayerID: "b", Name: "Bob", NewRating: 1184, Won: false},
	})
	s.Require().NoError(err)
	s.Require().Len(touched, 2)

	a, err := s.storage.GetLeaderboardEntry(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(1216, a.Rating)
	s.Equal(uint64(1), a.GamesWon)
	s.Equal(uint64(1), a.GamesPlayed)
	s.Equal(uint64(10000), a.WinRateBPS)

	_, err = s.service.RecordGame(s.ctx, "G2", []ParticipantResult{
		{PlayerID: "b", Name: "Bobby", NewRating: 1200, Won: true},
		{PlayerID: "a", Name: "Alice", NewRating: 1200, Won: false},
	})
	s.Require().NoError(err)

	a, _ = s.storage.GetLeaderboardEntry(s.ctx, "a")
	s.Equal(uint64(2), a.GamesPlayed)
	s.Equal(uint64(5000), a.WinRateBPS)

	b, _ := s.storage.GetLeaderboardEntry(s.ctx, "b")
	s.Equal("Bobby", b.Name)

	updates := s.notifier.OfType(model.NotificationLeaderboardUpdate)
	s.Require().Len(updates, 2)
	s.Empty(updates[0].Recipients)
	payload, ok := updates[0].Payload.(model.LeaderboardUpdatePayload)
	s.Require().True(ok)
	s.Len(payload.Entries, 2)
}

func (s *ServiceSuite) TestRecordGameDoesNotDeduplicate() {
	results := []ParticipantResult{{PlayerID: "a", Name: "A", NewRating: 1216, Won: true}}
	_, _ = s.service.RecordGame(s.ctx, "G1", results)
	_, _ = s.service.RecordGame(s.ctx, "G1", results)

	a, _ := s.storage.GetLeaderboardEntry(s.ctx, "a")
	s.Equal(uint64(2), a.GamesPlayed)
	s.Equal(model.GameID("G1"), a.LastGame)
}

func (s *ServiceSuite) TestRankingByElo() {
	s.saveProfile("c", 1300, model.LifetimeStats{})
	s.saveProfile("a", 1200, model.LifetimeStats{})
	s.saveProfile("b", 1200, model.LifetimeStats{})

	rows, err := s.service.Ranking(s.ctx, ranking.MetricElo, 0)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal(model.PlayerID("c"), rows[0].Profile.PlayerID)
	s.Equal(model.PlayerID("a"), rows[1].Profile.PlayerID)
	s.Equal(model.PlayerID("b"), rows[2].Profile.PlayerID)
	s.Equal([]int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func (s *ServiceSuite) TestRankingByNetProfitWithLimit() {
	s.saveProfile("loser", 1200, model.LifetimeStats{TotalLost: 50})
	s.saveProfile("even", 1200, model.LifetimeStats{})
	s.saveProfile("winner", 1200, model.LifetimeStats{TotalWon: 80, TotalLost: 10})

	rows, err := s.service.Ranking(s.ctx, ranking.MetricNetProfit, 2)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(model.PlayerID("winner"), rows[0].Profile.PlayerID)
	s.Equal(model.PlayerID("even"), rows[1].Profile.PlayerID)
}

func (s *ServiceSuite) TestEntriesSortedByRating() {
	_, _ = s.service.RecordGame(s.ctx, "G1", []ParticipantResult{
		{PlayerID: "low", Name: "L", NewRating: 1100},
		{PlayerID: "high", Name: "H", NewRating: 1400, Won: true},
		{PlayerID: "mid", Name: "M", NewRating: 1250},
	})

	entries, err := s.service.Entries(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(model.PlayerID("high"), entries[0].PlayerID)
	s.Equal(model.PlayerID("mid"), entries[1].PlayerID)
	s.Equal(model.PlayerID("low"), entries[2].PlayerID)

	top, err := s.service.Entries(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(top, 1)
}
