package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GamePhase represents the current phase of a game
type GamePhase string

const (
	PhaseWaitingForPlayers GamePhase = "waiting_for_players"
	PhaseCommitting        GamePhase = "committing" // Players publishing dice commitments
	PhaseBidding           GamePhase = "bidding"
	PhaseRevealing         GamePhase = "revealing" // Liar called, hands being opened
	PhaseRoundEnd          GamePhase = "round_end"
	PhaseGameOver          GamePhase = "game_over"
)

// PlayerResult is a seat's standing in the game
type PlayerResult string

const (
	ResultPending  PlayerResult = "pending"
	ResultWon      PlayerResult = "won"
	ResultLost     PlayerResult = "lost"
	ResultCheater  PlayerResult = "cheater"
	ResultTimedOut PlayerResult = "timed_out"
)

// Table limits
const (
	MaxPlayers    = 6
	MinPlayers    = 2
	StartingDice  = 5
	RevealTimeout = 60 * time.Second
)

// Seat is one player's place at the table
type Seat struct {
	PlayerID   PlayerID
	Name       string
	Rating     int // snapshot taken when the player joined
	Commitment *Commitment
	Hand       Hand // nil until revealed
	DiceCount  int
	Eliminated bool
	IsTurn     bool
	Result     PlayerResult
}

// Active reports whether the seat is still playing
func (s *Seat) Active() bool {
	return !s.Eliminated
}

// Revealed reports whether the seat's commitment has been opened (honestly or not)
func (s *Seat) Revealed() bool {
	return s.Commitment != nil && s.Commitment.Revealed
}

func (s *Seat) eliminate(result PlayerResult) {
	s.Eliminated = true
	s.DiceCount = 0
	s.IsTurn = false
	s.Result = result
}

// Game represents a single liar's dice session
type Game struct {
	ID      GameID
	LobbyID LobbyID
	Phase   GamePhase
	Round   int
	Stake   int64 // tokens each loser pays the winner, 0 for unranked play

	// Seats in join order; turn order follows seat order
	Seats       []Seat
	CurrentTurn int

	// Bidding state for the current round
	Bids           []Bid
	CurrentBid     *Bid
	LiarCaller     PlayerID
	RevealDeadline *time.Time

	TotalDice int
	Winner    PlayerID

	CreatedAt time.Time
	StartedAt *time.Time
	EndedAt   *time.Time
	UpdatedAt time.Time
}

// SeatIndex returns the index of the player's seat, or -1
func (g *Game) SeatIndex(playerID PlayerID) int {
	for i := range g.Seats {
		if g.Seats[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Seat returns the player's seat, or nil if they are not in the game
func (g *Game) Seat(playerID PlayerID) *Seat {
	if idx := g.SeatIndex(playerID); idx >= 0 {
		return &g.Seats[idx]
	}
	return nil
}

// Participants returns every player in the game, eliminated or not
func (g *Game) Participants() []PlayerID {
	ids := make([]PlayerID, len(g.Seats))
	for i, s := range g.Seats {
		ids[i] = s.PlayerID
	}
	return ids
}

// ActiveCount returns the number of seats not yet eliminated
func (g *Game) ActiveCount() int {
	n := 0
	for i := range g.Seats {
		if g.Seats[i].Active() {
			n++
		}
	}
	return n
}

// TurnHolder returns the player whose turn it is, if any
func (g *Game) TurnHolder() PlayerID {
	for _, s := range g.Seats {
		if s.IsTurn {
			return s.PlayerID
		}
	}
	return ""
}

// AllCommitted returns true if every active seat has published a commitment
func (g *Game) AllCommitted() bool {
	for _, s := range g.Seats {
		if s.Active() && s.Commitment == nil {
			return false
		}
	}
	return true
}

// AllRevealed returns true if every active seat's commitment has been opened
func (g *Game) AllRevealed() bool {
	for i := range g.Seats {
		if g.Seats[i].Active() && !g.Seats[i].Revealed() {
			return false
		}
	}
	return true
}

// CountFace counts matching dice across all active revealed hands
func (g *Game) CountFace(face DieFace) int {
	n := 0
	for _, s := range g.Seats {
		if s.Active() {
			n += s.Hand.Count(face)
		}
	}
	return n
}

// RevealExpired reports whether a reveal window is open and now is past it
func (g *Game) RevealExpired(now time.Time) bool {
	return g.RevealDeadline != nil && now.After(*g.RevealDeadline)
}

// IsOver returns true once a game has finished
func (g *Game) IsOver() bool {
	return g.Phase == PhaseGameOver
}

func (g *Game) recomputeTotalDice() {
	total := 0
	for _, s := range g.Seats {
		if s.Active() {
			total += s.DiceCount
		}
	}
	g.TotalDice = total
}

// RoundOutcome describes how a challenge was settled
type RoundOutcome struct {
	Round       int
	Bid         Bid
	Caller      PlayerID
	Loser       PlayerID
	ActualCount int
	BidValid    bool
	Hands       map[PlayerID]Hand
	GameOver    bool
	Winner      PlayerID

	// Uncontested is set when cheating or timeouts left one player before
	// any dice were counted
	Uncontested bool
}

// ForfeitOutcome describes the effect of a player leaving
type ForfeitOutcome struct {
	GameOver bool
	Winner   PlayerID
	Loser    PlayerID
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Seats = make([]Seat, len(g.Seats))
	for i, s := range g.Seats {
		if s.Commitment != nil {
			cm := *s.Commitment
			s.Commitment = &cm
		}
		if s.Hand != nil {
			s.Hand = append(Hand(nil), s.Hand...)
		}
		c.Seats[i] = s
	}
	if g.Bids != nil {
		c.Bids = append([]Bid(nil), g.Bids...)
	}
	if g.CurrentBid != nil {
		b := *g.CurrentBid
		c.CurrentBid = &b
	}
	if g.RevealDeadline != nil {
		d := *g.RevealDeadline
		c.RevealDeadline = &d
	}
	if g.StartedAt != nil {
		t := *g.StartedAt
		c.StartedAt = &t
	}
	if g.EndedAt != nil {
		t := *g.EndedAt
		c.EndedAt = &t
	}
	return &c
}
