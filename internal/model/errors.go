package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrEntryNotFound   = errors.New("leaderboard entry not found")
	ErrInvalidName     = errors.New("invalid display name")

	// Game lookup errors
	ErrGameNotFound        = errors.New("game not found")
	ErrPrivateHandNotFound = errors.New("private hand not found")
	ErrSettlementNotFound  = errors.New("settlement not found")

	// Protocol violations
	ErrWrongPhase          = errors.New("action not allowed in current phase")
	ErrNotPlayerTurn       = errors.New("not this player's turn")
	ErrNotInGame           = errors.New("player is not in game")
	ErrPlayerEliminated    = errors.New("player has been eliminated")
	ErrGameFull            = errors.New("game is full")
	ErrAlreadyInGame       = errors.New("player is already in game")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrGameOver            = errors.New("game is already over")

	// Bid errors
	ErrInvalidBid       = errors.New("invalid bid")
	ErrBidTooLow        = errors.New("bid must be higher than current bid")
	ErrNoCurrentBid     = errors.New("no bid to challenge")
	ErrCannotCallOwnBid = errors.New("cannot call liar on own bid")

	// Commitment errors
	ErrAlreadyCommitted = errors.New("player has already committed")
	ErrNotCommitted     = errors.New("player has not committed")
	ErrRevealPending    = errors.New("waiting for players to reveal")
	ErrAlreadyRevealed  = errors.New("player has already revealed")
	ErrInvalidHash      = errors.New("invalid commitment hash")
	ErrInvalidSalt      = errors.New("invalid salt")
	ErrInvalidDice      = errors.New("invalid dice")

	// Matchmaking errors
	ErrAlreadyQueued = errors.New("player is already queued")
	ErrNotQueued     = errors.New("player is not queued")

	// Ledger errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")

	// Invariant violations
	ErrNoEligibleSeat = errors.New("no eligible seat for next turn")
)
