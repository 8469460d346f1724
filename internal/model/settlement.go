package model

import "time"

// Settlement records the end-of-game effects of one game: the rating changes
// decided when it ended and which stake transfers, profile updates and
// leaderboard updates have already been applied. Settling again picks up
// where the last attempt stopped.
type Settlement struct {
	GameID  GameID
	Winner  PlayerID
	Loser   PlayerID
	Players []PlayerID // seat order
	Rounds  int
	Stake   int64

	WinnerChange int
	Ratings      map[PlayerID]int

	Debited     map[PlayerID]int64 // stake taken from each loser
	Credited    map[PlayerID]bool  // that stake has reached the winner
	Profiles    map[PlayerID]bool
	Leaderboard bool
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSettlement returns an empty record for a game that has just ended
func NewSettlement(game *Game, loser PlayerID, now time.Time) *Settlement {
	return &Settlement{
		GameID:    game.ID,
		Winner:    game.Winner,
		Loser:     loser,
		Players:   game.Participants(),
		Rounds:    game.Round,
		Stake:     game.Stake,
		Ratings:   make(map[PlayerID]int, len(game.Seats)),
		Debited:   make(map[PlayerID]int64),
		Credited:  make(map[PlayerID]bool),
		Profiles:  make(map[PlayerID]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Losers returns every player except the winner, in seat order
func (s *Settlement) Losers() []PlayerID {
	losers := make([]PlayerID, 0, len(s.Players))
	for _, id := range s.Players {
		if id != s.Winner {
			losers = append(losers, id)
		}
	}
	return losers
}

// Payout is the total the winner has been paid so far
func (s *Settlement) Payout() int64 {
	var total int64
	for loser, amount := range s.Debited {
		if s.Credited[loser] {
			total += amount
		}
	}
	return total
}

// Clone returns a deep copy of the record
func (s *Settlement) Clone() *Settlement {
	c := *s
	c.Players = append([]PlayerID(nil), s.Players...)
	c.Ratings = cloneMap(s.Ratings)
	c.Debited = cloneMap(s.Debited)
	c.Credited = cloneMap(s.Credited)
	c.Profiles = cloneMap(s.Profiles)
	return &c
}

func cloneMap[V any](m map[PlayerID]V) map[PlayerID]V {
	out := make(map[PlayerID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
