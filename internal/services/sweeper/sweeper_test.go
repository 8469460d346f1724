package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/liarsdice-go/internal/commitment"
	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
	ledgermemory "github.com/mcoot/liarsdice-go/internal/ledger/memory"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/services/game"
	"github.com/mcoot/liarsdice-go/internal/services/leaderboard"
	"github.com/mcoot/liarsdice-go/internal/services/profile"
	"github.com/mcoot/liarsdice-go/internal/storage/memory"
	"github.com/mcoot/liarsdice-go/internal/testutil"
)

type SweeperSuite struct {
	suite.Suite
	store    *flakyStore
	profiles *profile.Service
	games    *game.Controller
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	sessions *countingCleaner
	sweeper  *Sweeper
	ctx      context.Context
}

type countingCleaner struct {
	calls int
}

func (c *countingCleaner) CleanExpiredSessions() {
	c.calls++
}

var errStoreDown = errors.New("store down")

// flakyStore fails the next leaderboard writes
type flakyStore struct {
	*memory.Storage
	leaderboardFailures int
}

func (f *flakyStore) SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	if f.leaderboardFailures > 0 {
		f.leaderboardFailures--
		return errStoreDown
	}
	return f.Storage.SaveLeaderboardEntry(ctx, entry)
}

func TestSweeperSuite(t *testing.T) {
	suite.Run(t, new(SweeperSuite))
}

func (s *SweeperSuite) SetupTest() {
	store := &flakyStore{Storage: memory.New()}
	s.store = store
	notifier := mocks.NewMockNotifier()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.profiles = profile.New(store, s.clock, notifier, testutil.NopLogger())
	board := leaderboard.New(store, s.clock, notifier, testutil.NopLogger())
	s.games = game.NewController(store, ledgermemory.New(), s.profiles, board, notifier, s.clock, s.random, testutil.NopLogger())
	s.sessions = &countingCleaner{}
	s.sweeper = New(s.games, s.sessions, s.clock, time.Second, testutil.NopLogger())
	s.ctx = context.Background()
}

// challenged starts a game where a bid and b called liar
func (s *SweeperSuite) challenged(id string) model.GameID {
	s.random.QueueString(id)
	a, err := s.profiles.EnsureProfile(s.ctx, "a"+model.PlayerID(id), "a")
	s.Require().NoError(err)
	b, err := s.profiles.EnsureProfile(s.ctx, "b"+model.PlayerID(id), "b")
	s.Require().NoError(err)
	g, err := s.games.AssignMatch(s.ctx, model.DefaultLobbyID, 0, a, b)
	s.Require().NoError(err)

	hand := model.Hand{1, 2, 3, 4, 5}
	for i, p := range []model.PlayerID{a.PlayerID, b.PlayerID} {
		_, err := s.games.SubmitCommitment(s.ctx, g.ID, p, commitment.Commit(hand.Bytes(), [32]byte{byte(i)}))
		s.Require().NoError(err)
	}
	_, err = s.games.MakeBid(s.ctx, g.ID, a.PlayerID, 2, 3)
	s.Require().NoError(err)
	_, err = s.games.CallLiar(s.ctx, g.ID, b.PlayerID)
	s.Require().NoError(err)
	return g.ID
}

func (s *SweeperSuite) TestSweepIgnoresOpenWindows() {
	id := s.challenged("G1")

	n, err := s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, n)

	g, _ := s.games.GetGame(s.ctx, id)
	s.Equal(model.PhaseRevealing, g.Phase)
	s.Equal(1, s.sessions.calls)
}

func (s *SweeperSuite) TestSweepEliminatesLateRevealers() {
	first := s.challenged("G1")
	second := s.challenged("G2")

	s.clock.PassRevealDeadline()
	n, err := s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n, "the first seat of each table is spared")

	for _, id := range []model.GameID{first, second} {
		g, _ := s.games.GetGame(s.ctx, id)
		s.Equal(model.PhaseGameOver, g.Phase)
		s.Equal("a"+model.PlayerID(id), g.Winner)
	}

	n, err = s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *SweeperSuite) TestSweepFinishesInterruptedSettlements() {
	id := s.challenged("G1")
	s.store.leaderboardFailures = 1

	s.clock.PassRevealDeadline()
	_, err := s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)

	pending, err := s.store.ListPendingSettlements(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{id}, pending)

	_, err = s.sweeper.Sweep(s.ctx)
	s.Require().NoError(err)

	pending, err = s.store.ListPendingSettlements(s.ctx)
	s.Require().NoError(err)
	s.Empty(pending)
	entry, err := s.store.GetLeaderboardEntry(s.ctx, "aG1")
	s.Require().NoError(err)
	s.Equal(uint64(1), entry.GamesPlayed)
	s.Equal(uint64(1), entry.GamesWon)
}

func (s *SweeperSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.sweeper.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop")
	}
}
