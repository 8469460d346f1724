package model

import (
	"time"

	"github.com/mcoot/liarsdice-go/internal/commitment"
)

// Every transition below checks all of its guards before touching the game,
// so a rejected call leaves the game exactly as it was.

// AddPlayer seats a new player with a full set of dice
func (g *Game) AddPlayer(seat Seat) error {
	if g.Phase != PhaseWaitingForPlayers {
		return ErrWrongPhase
	}
	if g.SeatIndex(seat.PlayerID) >= 0 {
		return ErrAlreadyInGame
	}
	if len(g.Seats) >= MaxPlayers {
		return ErrGameFull
	}

	seat.DiceCount = StartingDice
	seat.Result = ResultPending
	seat.Eliminated = false
	seat.IsTurn = false
	seat.Commitment = nil
	seat.Hand = nil
	g.Seats = append(g.Seats, seat)
	g.recomputeTotalDice()
	return nil
}

// Start begins round one with the first seat holding the turn
func (g *Game) Start(now time.Time) error {
	if g.Phase != PhaseWaitingForPlayers {
		return ErrWrongPhase
	}
	if len(g.Seats) < MinPlayers {
		return ErrInsufficientPlayers
	}

	g.Round = 1
	g.setTurn(0)
	g.Phase = PhaseCommitting
	g.StartedAt = &now
	g.recomputeTotalDice()
	return nil
}

// SubmitCommitment records a player's dice commitment. Bidding opens once
// every active seat has committed.
func (g *Game) SubmitCommitment(playerID PlayerID, hash [32]byte) error {
	if g.Phase != PhaseCommitting {
		return ErrWrongPhase
	}
	seat, err := g.activeSeat(playerID)
	if err != nil {
		return err
	}
	if seat.Commitment != nil {
		return ErrAlreadyCommitted
	}

	seat.Commitment = &Commitment{Hash: hash}
	if g.AllCommitted() {
		g.Phase = PhaseBidding
	}
	return nil
}

// MakeBid places a bid for the turn holder and passes the turn on
func (g *Game) MakeBid(playerID PlayerID, quantity int, face DieFace, now time.Time) (Bid, error) {
	if g.Phase != PhaseBidding {
		return Bid{}, ErrWrongPhase
	}
	seat, err := g.activeSeat(playerID)
	if err != nil {
		return Bid{}, err
	}
	if !seat.IsTurn {
		return Bid{}, ErrNotPlayerTurn
	}

	bid := Bid{Quantity: quantity, Face: face, Bidder: playerID, PlacedAt: now}
	if !bid.ValidOpening() {
		return Bid{}, ErrInvalidBid
	}
	if g.CurrentBid != nil && !bid.IsHigherThan(*g.CurrentBid) {
		return Bid{}, ErrBidTooLow
	}

	next, err := g.nextActiveSeat(g.CurrentTurn)
	if err != nil {
		return Bid{}, err
	}

	g.Bids = append(g.Bids, bid)
	g.CurrentBid = &bid
	g.setTurn(next)
	return bid, nil
}

// CallLiar challenges the current bid and opens the reveal window
func (g *Game) CallLiar(playerID PlayerID, now time.Time) error {
	if g.Phase != PhaseBidding {
		return ErrWrongPhase
	}
	seat, err := g.activeSeat(playerID)
	if err != nil {
		return err
	}
	if !seat.IsTurn {
		return ErrNotPlayerTurn
	}
	if g.CurrentBid == nil {
		return ErrNoCurrentBid
	}
	if g.CurrentBid.Bidder == playerID {
		return ErrCannotCallOwnBid
	}

	deadline := now.Add(RevealTimeout)
	g.LiarCaller = playerID
	g.Phase = PhaseRevealing
	g.RevealDeadline = &deadline
	return nil
}

// Reveal opens a player's commitment. A reveal that does not match the
// commitment, or that shows a different number of dice than the player
// holds, eliminates the player as a cheater. honest reports which it was.
// If the cheater leaves a single player standing the game ends there and
// decided describes how.
func (g *Game) Reveal(playerID PlayerID, hand Hand, salt [32]byte, now time.Time) (honest bool, decided *RoundOutcome, err error) {
	if g.Phase != PhaseRevealing {
		return false, nil, ErrWrongPhase
	}
	seat, err := g.activeSeat(playerID)
	if err != nil {
		return false, nil, err
	}
	if seat.Commitment == nil {
		return false, nil, ErrNotCommitted
	}
	if seat.Commitment.Revealed {
		return false, nil, ErrAlreadyRevealed
	}

	honest = len(hand) == seat.DiceCount &&
		hand.Valid() &&
		commitment.Verify(hand.Bytes(), salt, seat.Commitment.Hash)

	if honest {
		seat.Commitment.Revealed = true
		seat.Hand = append(Hand(nil), hand...)
		seat.DiceCount = len(hand)
	} else {
		seat.Commitment.MarkCheater()
		seat.eliminate(ResultCheater)
	}
	g.recomputeTotalDice()

	if !honest && g.ActiveCount() == 1 {
		decided = g.concede(playerID, now)
	}
	return honest, decided, nil
}

// SweepTimeouts eliminates every active player who has not revealed once the
// reveal deadline has passed. It returns the players eliminated by this call.
//
// When nobody at the table has revealed, the first of them in seat order is
// spared so that exactly one player is left to take the game. Whenever the
// sweep leaves a single player standing the game ends and decided describes
// how.
func (g *Game) SweepTimeouts(now time.Time) (timedOut []PlayerID, decided *RoundOutcome, err error) {
	if g.Phase != PhaseRevealing {
		return nil, nil, ErrWrongPhase
	}
	if !g.RevealExpired(now) {
		return nil, nil, nil
	}

	var pending []int
	for i := range g.Seats {
		if g.Seats[i].Active() && !g.Seats[i].Revealed() {
			pending = append(pending, i)
		}
	}
	if len(pending) > 0 && len(pending) == g.ActiveCount() {
		pending = pending[1:]
	}

	for _, i := range pending {
		s := &g.Seats[i]
		if s.Commitment == nil {
			s.Commitment = &Commitment{}
		}
		s.Commitment.Revealed = true
		s.eliminate(ResultTimedOut)
		timedOut = append(timedOut, s.PlayerID)
	}
	g.recomputeTotalDice()

	if len(timedOut) > 0 && g.ActiveCount() == 1 {
		decided = g.concede(timedOut[0], now)
	}
	return timedOut, decided, nil
}

// ResolveRound settles the challenge once every active seat has revealed.
// The caller loses a die if the bid stood, otherwise the bidder does.
func (g *Game) ResolveRound(now time.Time) (RoundOutcome, error) {
	if g.Phase != PhaseRevealing || g.CurrentBid == nil {
		return RoundOutcome{}, ErrWrongPhase
	}
	if !g.AllRevealed() {
		return RoundOutcome{}, ErrRevealPending
	}

	bid := *g.CurrentBid
	out := g.outcome()
	out.ActualCount = g.CountFace(bid.Face)
	out.BidValid = out.ActualCount >= bid.Quantity
	out.Loser = bid.Bidder
	if out.BidValid {
		out.Loser = g.LiarCaller
	}

	g.loseDie(out.Loser)
	if g.ActiveCount() == 1 {
		out.Winner = g.soleActive()
		out.GameOver = true
		g.end(out.Winner, now)
	} else {
		g.newRound()
	}
	return out, nil
}

// Forfeit eliminates a player who leaves the game. If that leaves a single
// player standing the game ends in their favour.
func (g *Game) Forfeit(playerID PlayerID, now time.Time) (ForfeitOutcome, error) {
	if g.Phase == PhaseGameOver {
		return ForfeitOutcome{}, ErrGameOver
	}
	idx := g.SeatIndex(playerID)
	if idx < 0 {
		return ForfeitOutcome{}, ErrNotInGame
	}
	seat := &g.Seats[idx]
	if seat.Eliminated {
		return ForfeitOutcome{}, ErrPlayerEliminated
	}

	// Before the game starts leaving just frees the seat
	if g.Phase == PhaseWaitingForPlayers {
		g.Seats = append(g.Seats[:idx], g.Seats[idx+1:]...)
		g.recomputeTotalDice()
		return ForfeitOutcome{Loser: playerID}, nil
	}

	hadTurn := seat.IsTurn
	seat.eliminate(ResultLost)
	g.recomputeTotalDice()

	out := ForfeitOutcome{Loser: playerID}
	if g.ActiveCount() == 1 {
		out.Winner = g.soleActive()
		out.GameOver = true
		g.end(out.Winner, now)
		return out, nil
	}

	if hadTurn && g.ActiveCount() > 0 {
		if next, err := g.nextActiveSeat(idx); err == nil {
			g.setTurn(next)
		}
	}
	if g.Phase == PhaseCommitting && g.AllCommitted() {
		g.Phase = PhaseBidding
	}
	return out, nil
}

func (g *Game) activeSeat(playerID PlayerID) (*Seat, error) {
	seat := g.Seat(playerID)
	if seat == nil {
		return nil, ErrNotInGame
	}
	if seat.Eliminated {
		return nil, ErrPlayerEliminated
	}
	return seat, nil
}

// nextActiveSeat searches forward from the seat after from, wrapping around
func (g *Game) nextActiveSeat(from int) (int, error) {
	n := len(g.Seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if g.Seats[idx].Active() {
			return idx, nil
		}
	}
	return 0, ErrNoEligibleSeat
}

func (g *Game) setTurn(idx int) {
	for i := range g.Seats {
		g.Seats[i].IsTurn = i == idx
	}
	g.CurrentTurn = idx
}

func (g *Game) loseDie(playerID PlayerID) {
	seat := g.Seat(playerID)
	if seat == nil || seat.Eliminated {
		return
	}
	seat.DiceCount--
	if seat.DiceCount <= 0 {
		seat.eliminate(ResultLost)
	}
	g.recomputeTotalDice()
}

func (g *Game) soleActive() PlayerID {
	for _, s := range g.Seats {
		if s.Active() {
			return s.PlayerID
		}
	}
	return ""
}

// outcome snapshots the challenge being settled
func (g *Game) outcome() RoundOutcome {
	out := RoundOutcome{
		Round:  g.Round,
		Caller: g.LiarCaller,
		Hands:  make(map[PlayerID]Hand),
	}
	if g.CurrentBid != nil {
		out.Bid = *g.CurrentBid
	}
	for _, s := range g.Seats {
		if s.Hand != nil {
			out.Hands[s.PlayerID] = s.Hand
		}
	}
	return out
}

// concede ends a challenge that eliminations have already decided. One
// player is left, so no dice are counted and nobody loses a die.
func (g *Game) concede(loser PlayerID, now time.Time) *RoundOutcome {
	out := g.outcome()
	out.Loser = loser
	out.Uncontested = true
	out.GameOver = true
	out.Winner = g.soleActive()
	g.end(out.Winner, now)
	return &out
}

func (g *Game) end(winner PlayerID, now time.Time) {
	g.Phase = PhaseGameOver
	g.Winner = winner
	g.RevealDeadline = nil
	g.EndedAt = &now
	for i := range g.Seats {
		g.Seats[i].IsTurn = false
		if g.Seats[i].PlayerID == winner {
			g.Seats[i].Result = ResultWon
		}
	}
}

func (g *Game) newRound() {
	for i := range g.Seats {
		g.Seats[i].Commitment = nil
		g.Seats[i].Hand = nil
	}
	g.Bids = nil
	g.CurrentBid = nil
	g.LiarCaller = ""
	g.RevealDeadline = nil

	if first, err := g.nextActiveSeat(len(g.Seats) - 1); err == nil {
		g.setTurn(first)
	}
	g.Round++
	g.Phase = PhaseCommitting
	g.recomputeTotalDice()
}
