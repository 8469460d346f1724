package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/liarsdice-go/internal/commitment"
	"github.com/mcoot/liarsdice-go/internal/metrics"
	"github.com/mcoot/liarsdice-go/internal/model"
)

// RevealResult reports a reveal and, if it completed the round, how the
// challenge was settled
type RevealResult struct {
	Game    *model.Game
	Honest  bool
	Outcome *model.RoundOutcome
}

// TimeoutResult reports a timeout sweep
type TimeoutResult struct {
	Game     *model.Game
	TimedOut []model.PlayerID
	Outcome  *model.RoundOutcome
}

// SubmitCommitment publishes a player's dice commitment
func (c *Controller) SubmitCommitment(ctx context.Context, gameID model.GameID, playerID model.PlayerID, hash [commitment.HashSize]byte) (*model.Game, error) {
	return c.update(ctx, gameID, func(tx *txn) error {
		if err := tx.game.SubmitCommitment(playerID, hash); err != nil {
			return err
		}
		c.emitCommitted(tx, playerID)
		return nil
	})
}

// RollDice deals the player's hand on the server, keeps it private and
// commits to it on their behalf
func (c *Controller) RollDice(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PrivateHand, error) {
	var hand *model.PrivateHand
	_, err := c.update(ctx, gameID, func(tx *txn) error {
		game := tx.game
		seat := game.Seat(playerID)
		if seat == nil {
			return model.ErrNotInGame
		}

		dealContext := fmt.Sprintf("%s|%d|%s", game.ID, game.Round, playerID)
		dice, salt := c.mixer.Deal([]byte(dealContext), seat.DiceCount)
		hash := commitment.Commit(dice.Bytes(), salt)

		if err := game.SubmitCommitment(playerID, hash); err != nil {
			return err
		}

		hand = &model.PrivateHand{
			GameID:   game.ID,
			PlayerID: playerID,
			Round:    game.Round,
			Dice:     dice,
			Salt:     salt,
		}
		if err := c.storage.SavePrivateHand(ctx, hand); err != nil {
			return err
		}

		c.emitCommitted(tx, playerID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hand, nil
}

func (c *Controller) emitCommitted(tx *txn, playerID model.PlayerID) {
	tx.emit(model.NotificationDiceCommitted, model.DiceCommittedPayload{
		PlayerID:    playerID,
		BiddingOpen: tx.game.Phase == model.PhaseBidding,
	})
}

// GetPrivateHand returns the player's own server-dealt hand for the current round
func (c *Controller) GetPrivateHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PrivateHand, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Seat(playerID) == nil {
		return nil, model.ErrNotInGame
	}

	hand, err := c.storage.GetPrivateHand(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	if hand.Round != game.Round {
		return nil, model.ErrPrivateHandNotFound
	}
	return hand, nil
}

// MakeBid places a bid for the player holding the turn
func (c *Controller) MakeBid(ctx context.Context, gameID model.GameID, playerID model.PlayerID, quantity int, face model.DieFace) (*model.Game, error) {
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		bid, err := tx.game.MakeBid(playerID, quantity, face, c.clock.Now())
		if err != nil {
			return err
		}
		tx.emit(model.NotificationBidMade, model.BidMadePayload{
			Bid:      bid,
			NextTurn: tx.game.TurnHolder(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.BidsPlaced.Inc()
	return game, nil
}

// CallLiar challenges the current bid and opens the reveal window
func (c *Controller) CallLiar(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		if err := tx.game.CallLiar(playerID, c.clock.Now()); err != nil {
			return err
		}
		tx.emit(model.NotificationLiarCalled, model.LiarCalledPayload{
			Caller:   playerID,
			Bid:      *tx.game.CurrentBid,
			Deadline: *tx.game.RevealDeadline,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LiarCalls.Inc()
	c.logger.Info("liar called",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("round", game.Round),
	)
	return game, nil
}

// RevealDice opens the player's commitment. A reveal that does not match is
// not an error: the player is eliminated as a cheater. The round resolves
// as soon as every remaining player has revealed.
func (c *Controller) RevealDice(ctx context.Context, gameID model.GameID, playerID model.PlayerID, hand model.Hand, salt [commitment.SaltSize]byte) (*RevealResult, error) {
	result := &RevealResult{}
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		return c.reveal(tx, playerID, hand, salt, result)
	})
	if err != nil {
		return nil, err
	}
	result.Game = game
	return result, nil
}

// RevealStored reveals the hand the server dealt to the player this round
func (c *Controller) RevealStored(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*RevealResult, error) {
	result := &RevealResult{}
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		stored, err := c.storage.GetPrivateHand(ctx, gameID, playerID)
		if err != nil {
			return err
		}
		if stored.Round != tx.game.Round {
			return model.ErrPrivateHandNotFound
		}
		return c.reveal(tx, playerID, stored.Dice, stored.Salt, result)
	})
	if err != nil {
		return nil, err
	}
	result.Game = game
	return result, nil
}

func (c *Controller) reveal(tx *txn, playerID model.PlayerID, hand model.Hand, salt [commitment.SaltSize]byte, result *RevealResult) error {
	game := tx.game
	honest, decided, err := game.Reveal(playerID, hand, salt, c.clock.Now())
	if err != nil {
		return err
	}
	result.Honest = honest

	payload := model.DiceRevealedPayload{PlayerID: playerID, Honest: honest}
	if honest {
		payload.Hand = game.Seat(playerID).Hand
	}
	tx.emit(model.NotificationDiceRevealed, payload)

	if !honest {
		c.eliminated(tx, playerID, model.ResultCheater)
		c.logger.Warn("false reveal",
			slog.String("game_id", string(game.ID)),
			slog.String("player_id", string(playerID)),
			slog.Int("round", game.Round),
		)
	}

	switch {
	case decided != nil:
		c.decided(tx, decided)
		result.Outcome = decided
	case game.AllRevealed():
		outcome, err := c.resolve(tx)
		if err != nil {
			return err
		}
		result.Outcome = outcome
	}
	return nil
}

// Forfeit removes a player from the game. Before the game starts this just
// frees the seat; afterwards the player is eliminated.
func (c *Controller) Forfeit(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	var started bool
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		game := tx.game
		started = game.Phase != model.PhaseWaitingForPlayers

		out, err := game.Forfeit(playerID, c.clock.Now())
		if err != nil {
			return err
		}
		tx.loser = out.Loser
		if !started {
			tx.extraRecipients = append(tx.extraRecipients, playerID)
			return nil
		}

		c.eliminated(tx, playerID, model.ResultLost)

		// A forfeit can complete the reveal the table was waiting on
		if game.Phase == model.PhaseRevealing && game.AllRevealed() {
			if _, err := c.resolve(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A finished game has already moved every participant back to idle
	if !game.IsOver() {
		if err := c.profiles.SetStatus(ctx, playerID, model.StatusIdle, ""); err != nil && !errors.Is(err, model.ErrProfileNotFound) {
			return nil, err
		}
	}

	c.logger.Info("player forfeited",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Bool("started", started),
	)
	return game, nil
}

// CheckTimeout eliminates everyone who has not revealed once the reveal
// deadline has passed, then settles the round. Before the deadline it
// changes nothing.
func (c *Controller) CheckTimeout(ctx context.Context, gameID model.GameID) (*TimeoutResult, error) {
	result := &TimeoutResult{}
	game, err := c.update(ctx, gameID, func(tx *txn) error {
		timedOut, decided, err := tx.game.SweepTimeouts(c.clock.Now())
		if err != nil {
			return err
		}
		result.TimedOut = timedOut
		for _, playerID := range timedOut {
			c.eliminated(tx, playerID, model.ResultTimedOut)
		}

		if decided != nil {
			c.decided(tx, decided)
			result.Outcome = decided
			return nil
		}
		if len(timedOut) > 0 && tx.game.AllRevealed() {
			outcome, err := c.resolve(tx)
			if err != nil {
				return err
			}
			result.Outcome = outcome
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.TimedOut) > 0 {
		c.logger.Info("reveal timeout",
			slog.String("game_id", string(gameID)),
			slog.Int("timed_out", len(result.TimedOut)),
		)
	}
	result.Game = game
	return result, nil
}

// resolve settles the challenge. The round is credited to the profiles
// involved once the game is saved.
func (c *Controller) resolve(tx *txn) (*model.RoundOutcome, error) {
	game := tx.game
	before := make(map[model.PlayerID]bool, len(game.Seats))
	for _, s := range game.Seats {
		before[s.PlayerID] = s.Eliminated
	}

	outcome, err := game.ResolveRound(c.clock.Now())
	if err != nil {
		return nil, err
	}
	tx.loser = outcome.Loser
	tx.rounds = append(tx.rounds, outcome)
	metrics.RoundsResolved.Inc()

	tx.emit(model.NotificationRoundResult, model.RoundResultPayload{Outcome: outcome})
	for _, s := range game.Seats {
		if s.Eliminated && !before[s.PlayerID] {
			c.eliminated(tx, s.PlayerID, s.Result)
		}
	}
	if !outcome.GameOver {
		tx.emit(model.NotificationRoundEnded, model.RoundEndedPayload{
			Round:     outcome.Round,
			NextRound: game.Round,
		})
	}

	c.logger.Info("round resolved",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", outcome.Round),
		slog.String("loser", string(outcome.Loser)),
		slog.Bool("bid_valid", outcome.BidValid),
		slog.Bool("game_over", outcome.GameOver),
	)
	return &outcome, nil
}

// decided reports a challenge that ended the game before any dice were
// counted
func (c *Controller) decided(tx *txn, outcome *model.RoundOutcome) {
	tx.loser = outcome.Loser
	tx.rounds = append(tx.rounds, *outcome)
	metrics.RoundsResolved.Inc()
	tx.emit(model.NotificationRoundResult, model.RoundResultPayload{Outcome: *outcome})

	c.logger.Info("round conceded",
		slog.String("game_id", string(tx.game.ID)),
		slog.Int("round", outcome.Round),
		slog.String("loser", string(outcome.Loser)),
		slog.String("winner", string(outcome.Winner)),
	)
}

// recordRound credits the liar call, the bid and the round win. An
// uncontested round only credits the survivor.
func (c *Controller) recordRound(ctx context.Context, gameID model.GameID, outcome model.RoundOutcome) {
	updates := make(map[model.PlayerID][]func(p *model.Profile))
	add := func(id model.PlayerID, fn func(p *model.Profile)) {
		if id != "" {
			updates[id] = append(updates[id], fn)
		}
	}

	if outcome.Uncontested {
		add(outcome.Winner, func(p *model.Profile) { p.Stats.RecordRoundWin() })
	} else {
		bidder := outcome.Bid.Bidder
		roundWinner := outcome.Caller
		if outcome.BidValid {
			roundWinner = bidder
		}
		add(outcome.Caller, func(p *model.Profile) { p.Stats.RecordLiarCall(!outcome.BidValid) })
		add(bidder, func(p *model.Profile) { p.Stats.RecordBluff(outcome.BidValid) })
		add(roundWinner, func(p *model.Profile) { p.Stats.RecordRoundWin() })
	}

	for _, playerID := range []model.PlayerID{outcome.Caller, outcome.Bid.Bidder, outcome.Winner} {
		fns, ok := updates[playerID]
		if !ok {
			continue
		}
		delete(updates, playerID)
		_, err := c.profiles.Update(ctx, playerID, func(p *model.Profile) {
			for _, fn := range fns {
				fn(p)
			}
		})
		if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
			c.logger.Error("failed to record round",
				slog.String("game_id", string(gameID)),
				slog.String("player_id", string(playerID)),
				slog.Int("round", outcome.Round),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *Controller) eliminated(tx *txn, playerID model.PlayerID, result model.PlayerResult) {
	metrics.Eliminations.WithLabelValues(string(result)).Inc()
	tx.emit(model.NotificationPlayerEliminated, model.PlayerEliminatedPayload{
		PlayerID: playerID,
		Result:   result,
	})
}
