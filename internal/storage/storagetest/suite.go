// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

// Suite runs the storage contract against a backend. Backends embed it and
// set Storage in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) now() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: s.now()}
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "player-1"))
	_, err = s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))

	retrieved, err := s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)

	_, err = s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Profile tests

func (s *Suite) TestSaveAndListProfiles() {
	alice := model.NewProfile("p1", "Alice", s.now())
	alice.Stats.RecordGame(true, 3)
	bob := model.NewProfile("p2", "Bob", s.now())
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, alice))
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, bob))

	retrieved, err := s.Storage.GetProfile(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.StartingRating, retrieved.Rating)
	s.Equal(uint64(1), retrieved.Stats.GamesWon)

	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Len(profiles, 2)

	_, err = s.Storage.GetProfile(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	game := &model.Game{ID: "game-1", Phase: model.PhaseWaitingForPlayers, CreatedAt: s.now()}
	s.Require().NoError(game.AddPlayer(model.Seat{PlayerID: "a"}))
	s.Require().NoError(game.AddPlayer(model.Seat{PlayerID: "b"}))
	s.Require().NoError(game.Start(s.now()))
	s.Require().NoError(game.SubmitCommitment("a", [32]byte{7}))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.PhaseCommitting, retrieved.Phase)
	s.Len(retrieved.Seats, 2)
	s.Equal([32]byte{7}, retrieved.Seats[0].Commitment.Hash)
	s.Equal(model.PlayerID("a"), retrieved.TurnHolder())

	exists, err := s.Storage.GameExists(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.True(exists)

	_, err = s.Storage.GetGame(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestSavedGameIsIsolatedFromCaller() {
	game := &model.Game{ID: "game-1", Phase: model.PhaseWaitingForPlayers}
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	game.Phase = model.PhaseGameOver
	retrieved, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.PhaseWaitingForPlayers, retrieved.Phase)
}

func (s *Suite) TestListActiveGames() {
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, &model.Game{ID: "g1", Phase: model.PhaseBidding}))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, &model.Game{ID: "g2", Phase: model.PhaseRevealing}))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, &model.Game{ID: "g3", Phase: model.PhaseGameOver}))

	ids, err := s.Storage.ListActiveGames(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.GameID{"g1", "g2"}, ids)

	s.Require().NoError(s.Storage.SaveGame(s.Ctx, &model.Game{ID: "g1", Phase: model.PhaseGameOver}))
	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, "g2"))
	ids, err = s.Storage.ListActiveGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}

// Private hand tests

func (s *Suite) TestPrivateHands() {
	hand := &model.PrivateHand{GameID: "g1", PlayerID: "a", Round: 1, Dice: model.Hand{1, 2, 3}, Salt: [32]byte{9}}
	s.Require().NoError(s.Storage.SavePrivateHand(s.Ctx, hand))
	s.Require().NoError(s.Storage.SavePrivateHand(s.Ctx, &model.PrivateHand{GameID: "g1", PlayerID: "b"}))
	s.Require().NoError(s.Storage.SavePrivateHand(s.Ctx, &model.PrivateHand{GameID: "g2", PlayerID: "a"}))

	retrieved, err := s.Storage.GetPrivateHand(s.Ctx, "g1", "a")
	s.Require().NoError(err)
	s.Equal(model.Hand{1, 2, 3}, retrieved.Dice)
	s.Equal([32]byte{9}, retrieved.Salt)

	s.Require().NoError(s.Storage.DeletePrivateHandsForGame(s.Ctx, "g1"))
	_, err = s.Storage.GetPrivateHand(s.Ctx, "g1", "a")
	s.ErrorIs(err, model.ErrPrivateHandNotFound)
	_, err = s.Storage.GetPrivateHand(s.Ctx, "g2", "a")
	s.NoError(err)
}

// Queue tests

func (s *Suite) TestQueue() {
	q, err := s.Storage.GetQueue(s.Ctx, "lobby-1")
	s.Require().NoError(err)
	s.Equal(model.LobbyID("lobby-1"), q.LobbyID)
	s.Equal(0, q.Len())

	q.Enqueue(model.QueueEntry{PlayerID: "a", Rating: 1200})
	q.Enqueue(model.QueueEntry{PlayerID: "b", Rating: 1300})
	s.Require().NoError(s.Storage.SaveQueue(s.Ctx, q))

	retrieved, err := s.Storage.GetQueue(s.Ctx, "lobby-1")
	s.Require().NoError(err)
	s.Equal(2, retrieved.Count)
	s.Equal(model.PlayerID("a"), retrieved.Entries[0].PlayerID)

	other, err := s.Storage.GetQueue(s.Ctx, "lobby-2")
	s.Require().NoError(err)
	s.Equal(0, other.Len())
}

// Settlement tests

func (s *Suite) TestSettlements() {
	_, err := s.Storage.GetSettlement(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrSettlementNotFound)

	game := &model.Game{ID: "g1", Phase: model.PhaseWaitingForPlayers, Round: 3, Stake: 10, Winner: "a"}
	s.Require().NoError(game.AddPlayer(model.Seat{PlayerID: "a"}))
	s.Require().NoError(game.AddPlayer(model.Seat{PlayerID: "b"}))
	rec := model.NewSettlement(game, "b", s.now())
	rec.Ratings["a"] = 1216
	rec.Debited["b"] = 10
	s.Require().NoError(s.Storage.SaveSettlement(s.Ctx, rec))
	s.Require().NoError(s.Storage.SaveSettlement(s.Ctx, &model.Settlement{GameID: "g2", Completed: true}))

	rec.Credited["b"] = true
	retrieved, err := s.Storage.GetSettlement(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"a", "b"}, retrieved.Players)
	s.Equal(1216, retrieved.Ratings["a"])
	s.Equal(int64(10), retrieved.Debited["b"])
	s.False(retrieved.Credited["b"])
	s.Equal(int64(0), retrieved.Payout())

	pending, err := s.Storage.ListPendingSettlements(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"g1"}, pending)

	retrieved.Credited["b"] = true
	retrieved.Completed = true
	s.Require().NoError(s.Storage.SaveSettlement(s.Ctx, retrieved))
	pending, err = s.Storage.ListPendingSettlements(s.Ctx)
	s.Require().NoError(err)
	s.Empty(pending)

	done, err := s.Storage.GetSettlement(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(int64(10), done.Payout())
}

// Leaderboard tests

func (s *Suite) TestLeaderboardEntries() {
	_, err := s.Storage.GetLeaderboardEntry(s.Ctx, "a")
	s.ErrorIs(err, model.ErrEntryNotFound)

	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, &model.LeaderboardEntry{PlayerID: "a", Rating: 1216, GamesPlayed: 1, GamesWon: 1}))
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, &model.LeaderboardEntry{PlayerID: "b", Rating: 1184, GamesPlayed: 1}))

	entry, err := s.Storage.GetLeaderboardEntry(s.Ctx, "a")
	s.Require().NoError(err)
	s.Equal(1216, entry.Rating)

	entries, err := s.Storage.ListLeaderboardEntries(s.Ctx)
	s.Require().NoError(err)
	s.Len(entries, 2)
}
