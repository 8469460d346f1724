package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/liarsdice-go/internal/elo"
	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/metrics"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/services/leaderboard"
)

// prepareSettlement loads or plans the settlement for a game that has just
// ended and moves the stakes. It runs before the finished game is saved; if
// that save never happens the record lets the next attempt carry on without
// paying anyone twice.
func (c *Controller) prepareSettlement(ctx context.Context, game *model.Game, loser model.PlayerID) (*model.Settlement, error) {
	rec, err := c.storage.GetSettlement(ctx, game.ID)
	switch {
	case errors.Is(err, model.ErrSettlementNotFound):
		rec = nil
	case err != nil:
		return nil, err
	}

	if rec != nil && rec.Winner != game.Winner {
		// An earlier ending was never saved and this one went the other way
		c.logger.Warn("replanning settlement",
			slog.String("game_id", string(game.ID)),
			slog.String("previous_winner", string(rec.Winner)),
			slog.String("winner", string(game.Winner)),
		)
		if err := c.unwindStake(ctx, rec); err != nil {
			return nil, err
		}
		rec = nil
	}

	if rec == nil {
		if rec, err = c.planSettlement(ctx, game, loser); err != nil {
			return nil, err
		}
	}
	rec.Loser = loser
	if err := c.saveSettlement(ctx, rec); err != nil {
		return nil, err
	}

	if err := c.settleStake(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// planSettlement fixes the rating changes for the game. Each loser moves
// against the winner's current rating and the winner gains the sum.
func (c *Controller) planSettlement(ctx context.Context, game *model.Game, loser model.PlayerID) (*model.Settlement, error) {
	rec := model.NewSettlement(game, loser, c.clock.Now())

	// Current ratings, not the seat snapshots, so games finishing in
	// parallel do not overwrite each other's changes
	current := make(map[model.PlayerID]int, len(game.Seats))
	for _, s := range game.Seats {
		p, err := c.profiles.EnsureProfile(ctx, s.PlayerID, s.Name)
		if err != nil {
			return nil, err
		}
		current[s.PlayerID] = p.Rating
		rec.Ratings[s.PlayerID] = p.Rating
	}

	if rec.Winner == "" {
		return rec, nil
	}
	winnerRating := current[rec.Winner]
	for _, id := range rec.Losers() {
		change, _, loserNew := elo.GameOver(winnerRating, current[id])
		rec.WinnerChange += change
		rec.Ratings[id] = loserNew
	}
	rec.Ratings[rec.Winner] = winnerRating + rec.WinnerChange
	return rec, nil
}

// settleStake takes each loser's stake, capped at their balance, and hands
// it to the winner. Every step is recorded as it completes.
func (c *Controller) settleStake(ctx context.Context, rec *model.Settlement) error {
	if rec.Stake <= 0 || rec.Winner == "" {
		return nil
	}

	for _, loser := range rec.Losers() {
		if _, ok := rec.Debited[loser]; !ok {
			balance, err := c.ledger.Balance(ctx, loser)
			if err != nil {
				return fmt.Errorf("settle stake for %s: %w", loser, err)
			}
			paid := max(min(rec.Stake, balance), 0)
			if paid > 0 {
				if err := c.ledger.UpdateBalance(ctx, loser, balance-paid); err != nil {
					return fmt.Errorf("settle stake for %s: %w", loser, err)
				}
			}
			rec.Debited[loser] = paid
			if err := c.saveSettlement(ctx, rec); err != nil {
				return err
			}
		}

		if !rec.Credited[loser] {
			if paid := rec.Debited[loser]; paid > 0 {
				if err := c.ledger.MintToken(ctx, rec.Winner, paid); err != nil {
					return fmt.Errorf("pay stake from %s: %w", loser, err)
				}
			}
			rec.Credited[loser] = true
			if err := c.saveSettlement(ctx, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// unwindStake returns every stake an abandoned settlement moved
func (c *Controller) unwindStake(ctx context.Context, rec *model.Settlement) error {
	for _, loser := range rec.Losers() {
		paid, ok := rec.Debited[loser]
		if !ok {
			continue
		}
		if paid > 0 {
			var err error
			if rec.Credited[loser] {
				_, err = ledger.Transfer(ctx, c.ledger, rec.Winner, loser, paid)
			} else {
				err = c.ledger.MintToken(ctx, loser, paid)
			}
			if err != nil {
				return fmt.Errorf("return stake to %s: %w", loser, err)
			}
		}
		delete(rec.Debited, loser)
		delete(rec.Credited, loser)
		if err := c.saveSettlement(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// gameEnded reports a finished game once it is saved
func (c *Controller) gameEnded(tx *txn, rec *model.Settlement) {
	game := tx.game

	ending := model.ResultLost
	if seat := game.Seat(rec.Loser); seat != nil {
		ending = seat.Result
	}
	metrics.GamesFinished.WithLabelValues(string(ending)).Inc()
	metrics.ActiveGames.Dec()

	tx.emit(model.NotificationGameResult, model.GameResultPayload{
		Winner:       rec.Winner,
		Loser:        rec.Loser,
		RatingChange: rec.WinnerChange,
		Ratings:      rec.Ratings,
		Payout:       rec.Payout(),
	})
	tx.emit(model.NotificationGameEnded, nil)

	c.logger.Info("game finished",
		slog.String("game_id", string(game.ID)),
		slog.String("winner", string(rec.Winner)),
		slog.Int("rounds", rec.Rounds),
		slog.Int("rating_change", rec.WinnerChange),
		slog.Int64("payout", rec.Payout()),
	)
}

// completeSettlement writes ratings and lifetime stats and updates the
// leaderboard, skipping whatever an earlier attempt already did
func (c *Controller) completeSettlement(ctx context.Context, rec *model.Settlement) error {
	if rec.Completed {
		return nil
	}
	payout := rec.Payout()

	results := make([]leaderboard.ParticipantResult, 0, len(rec.Players))
	for _, id := range rec.Players {
		won := id == rec.Winner
		paid := rec.Debited[id]
		rating := rec.Ratings[id]

		var (
			p   *model.Profile
			err error
		)
		if rec.Profiles[id] {
			p, err = c.profiles.GetProfile(ctx, id)
		} else {
			p, err = c.profiles.Update(ctx, id, func(p *model.Profile) {
				if p.LastSettled == rec.GameID {
					return
				}
				p.Rating = rating
				p.Stats.RecordGame(won, rec.Rounds)
				p.Stats.UpdatePeak(rating)
				if won && payout > 0 {
					p.Stats.RecordWinLoss(uint64(payout), true)
				}
				if !won && paid > 0 {
					p.Stats.RecordWinLoss(uint64(paid), false)
				}
				p.Status = model.StatusIdle
				p.CurrentGame = ""
				p.LastSettled = rec.GameID
			})
		}
		if err != nil {
			return err
		}
		if !rec.Profiles[id] {
			rec.Profiles[id] = true
			if err := c.saveSettlement(ctx, rec); err != nil {
				return err
			}
		}

		results = append(results, leaderboard.ParticipantResult{
			PlayerID:  id,
			Name:      p.Name,
			NewRating: rating,
			Won:       won,
		})
	}

	if !rec.Leaderboard {
		// Skip entries an interrupted attempt already counted
		pending := results[:0]
		for _, r := range results {
			entry, err := c.storage.GetLeaderboardEntry(ctx, r.PlayerID)
			if err != nil && !errors.Is(err, model.ErrEntryNotFound) {
				return err
			}
			if entry == nil || entry.LastGame != rec.GameID {
				pending = append(pending, r)
			}
		}
		if len(pending) > 0 {
			if _, err := c.leaderboard.RecordGame(ctx, rec.GameID, pending); err != nil {
				return err
			}
		}
		rec.Leaderboard = true
		if err := c.saveSettlement(ctx, rec); err != nil {
			return err
		}
	}

	if err := c.storage.DeletePrivateHandsForGame(ctx, rec.GameID); err != nil {
		c.logger.Error("failed to delete private hands",
			slog.String("game_id", string(rec.GameID)),
			slog.String("error", err.Error()),
		)
	}

	rec.Completed = true
	return c.saveSettlement(ctx, rec)
}

func (c *Controller) saveSettlement(ctx context.Context, rec *model.Settlement) error {
	rec.UpdatedAt = c.clock.Now()
	return c.storage.SaveSettlement(ctx, rec)
}

// SettlePending finishes settlements that stopped part way through, for
// games whose end has been saved. It returns how many it completed.
func (c *Controller) SettlePending(ctx context.Context) (int, error) {
	ids, err := c.storage.ListPendingSettlements(ctx)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, id := range ids {
		done, err := c.resumeSettlement(ctx, id)
		if err != nil {
			c.logger.Error("settlement retry failed",
				slog.String("game_id", string(id)),
				slog.String("error", err.Error()),
			)
			continue
		}
		if done {
			completed++
		}
	}
	return completed, nil
}

func (c *Controller) resumeSettlement(ctx context.Context, gameID model.GameID) (bool, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if errors.Is(err, model.ErrGameNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	// The ending that wrote this record was never saved; the game's real
	// ending will pick it up
	if !game.IsOver() {
		return false, nil
	}

	rec, err := c.storage.GetSettlement(ctx, gameID)
	if err != nil {
		return false, err
	}
	if rec.Completed {
		return false, nil
	}
	if err := c.settleStake(ctx, rec); err != nil {
		return false, err
	}
	if err := c.completeSettlement(ctx, rec); err != nil {
		return false, err
	}

	c.logger.Info("settlement completed on retry", slog.String("game_id", string(gameID)))
	return true, nil
}
