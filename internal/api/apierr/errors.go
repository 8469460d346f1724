package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/ranking"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
	"github.com/mcoot/liarsdice-go/internal/services/game"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeProfileNotFound     = "PROFILE_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeHandNotFound        = "HAND_NOT_FOUND"
	CodeInvalidName         = "INVALID_NAME"
	CodeWrongPhase          = "WRONG_PHASE"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeNotInGame           = "NOT_IN_GAME"
	CodeEliminated          = "ELIMINATED"
	CodeGameFull            = "GAME_FULL"
	CodeGameOver            = "GAME_OVER"
	CodeAlreadyInGame       = "ALREADY_IN_GAME"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInvalidBid          = "INVALID_BID"
	CodeBidTooLow           = "BID_TOO_LOW"
	CodeNoCurrentBid        = "NO_CURRENT_BID"
	CodeOwnBid              = "OWN_BID"
	CodeAlreadyCommitted    = "ALREADY_COMMITTED"
	CodeNotCommitted        = "NOT_COMMITTED"
	CodeAlreadyRevealed     = "ALREADY_REVEALED"
	CodeInvalidCommitment   = "INVALID_COMMITMENT"
	CodeInvalidDice         = "INVALID_DICE"
	CodeAlreadyQueued       = "ALREADY_QUEUED"
	CodeNotQueued           = "NOT_QUEUED"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeUnknownMetric       = "UNKNOWN_METRIC"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

var mappings = []mapping{
	// Lookups
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound, "Player not found"},
	{model.ErrProfileNotFound, http.StatusNotFound, CodeProfileNotFound, "Profile not found"},
	{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound, "Game not found"},
	{model.ErrPrivateHandNotFound, http.StatusNotFound, CodeHandNotFound, "No dealt hand for this round"},
	{model.ErrInvalidName, http.StatusBadRequest, CodeInvalidName, "Name must be 1 to 32 characters"},

	// Game protocol
	{model.ErrWrongPhase, http.StatusConflict, CodeWrongPhase, "Action not allowed in the current phase"},
	{model.ErrRevealPending, http.StatusConflict, CodeWrongPhase, "Waiting for players to reveal"},
	{model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn, "Not your turn"},
	{model.ErrNotInGame, http.StatusForbidden, CodeNotInGame, "You are not in this game"},
	{model.ErrPlayerEliminated, http.StatusForbidden, CodeEliminated, "You have been eliminated"},
	{model.ErrGameFull, http.StatusConflict, CodeGameFull, "Game is full"},
	{model.ErrGameOver, http.StatusConflict, CodeGameOver, "Game is already over"},
	{model.ErrAlreadyInGame, http.StatusConflict, CodeAlreadyInGame, "Already in a game"},
	{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers, "Not enough players to start"},
	{model.ErrInvalidBid, http.StatusBadRequest, CodeInvalidBid, "Bid needs a quantity of at least 1 and a face from 1 to 6"},
	{model.ErrBidTooLow, http.StatusConflict, CodeBidTooLow, "Bid must be higher than the current bid"},
	{model.ErrNoCurrentBid, http.StatusConflict, CodeNoCurrentBid, "There is no bid to challenge"},
	{model.ErrCannotCallOwnBid, http.StatusConflict, CodeOwnBid, "Cannot call liar on your own bid"},
	{model.ErrAlreadyCommitted, http.StatusConflict, CodeAlreadyCommitted, "Dice already committed this round"},
	{model.ErrNotCommitted, http.StatusConflict, CodeNotCommitted, "No commitment to reveal"},
	{model.ErrAlreadyRevealed, http.StatusConflict, CodeAlreadyRevealed, "Dice already revealed"},
	{model.ErrInvalidHash, http.StatusBadRequest, CodeInvalidCommitment, "Commitment must be 32 hex encoded bytes"},
	{model.ErrInvalidSalt, http.StatusBadRequest, CodeInvalidCommitment, "Salt must be 32 hex encoded bytes"},
	{model.ErrInvalidDice, http.StatusBadRequest, CodeInvalidDice, "Dice must be faces from 1 to 6"},

	// Matchmaking and ledger
	{model.ErrAlreadyQueued, http.StatusConflict, CodeAlreadyQueued, "Already searching for a match"},
	{model.ErrNotQueued, http.StatusNotFound, CodeNotQueued, "Not searching for a match"},
	{model.ErrInsufficientBalance, http.StatusPaymentRequired, CodeInsufficientBalance, "Balance does not cover the stake"},
	{model.ErrInvalidAmount, http.StatusBadRequest, CodeInvalidAmount, "Amount must be positive"},
	{ranking.ErrUnknownMetric, http.StatusBadRequest, CodeUnknownMetric, "Unknown ranking metric"},
	{game.ErrGameIDExhausted, http.StatusServiceUnavailable, CodeUnavailable, "Could not allocate a game, try again"},

	// Auth
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password"},
	{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session"},
	{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists, "Username already exists"},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return &httpError{m.status, APIError{m.code, m.message}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
