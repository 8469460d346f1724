package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/api/request"
	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/commitment"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{gameController: gameController}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.GameFromModel(g))
}

// Commit handles POST /api/v1/games/{id}/commit
func (h *GameHandler) Commit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CommitRequest
	if !decode(w, r, &req) {
		return
	}
	hash, err := commitment.ParseHash(req.Hash)
	if err != nil {
		WriteError(w, model.ErrInvalidHash)
		return
	}

	g, err := h.gameController.SubmitCommitment(r.Context(), gameID(r), player.ID, hash)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.GameFromModel(g))
}

// Roll handles POST /api/v1/games/{id}/roll. The server deals the hand,
// commits to it and hands the dice and salt back to the caller only.
func (h *GameHandler) Roll(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	hand, err := h.gameController.RollDice(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Created(w, response.PrivateHandFromModel(hand))
}

// Hand handles GET /api/v1/games/{id}/hand
func (h *GameHandler) Hand(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	hand, err := h.gameController.GetPrivateHand(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.PrivateHandFromModel(hand))
}

// Reveal handles POST /api/v1/games/{id}/reveal
func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.RevealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var (
		res *game.RevealResult
		err error
	)
	if len(req.Dice) == 0 && req.Salt == "" {
		res, err = h.gameController.RevealStored(r.Context(), gameID(r), player.ID)
	} else {
		salt, perr := commitment.ParseSalt(req.Salt)
		if perr != nil {
			WriteError(w, model.ErrInvalidSalt)
			return
		}
		hand := make(model.Hand, len(req.Dice))
		for i, d := range req.Dice {
			hand[i] = model.DieFace(d)
		}
		res, err = h.gameController.RevealDice(r.Context(), gameID(r), player.ID, hand, salt)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.RevealResponse{
		Honest:  res.Honest,
		Game:    response.GameFromModel(res.Game),
		Outcome: response.RoundOutcomeFromModel(res.Outcome),
	})
}

// Bid handles POST /api/v1/games/{id}/bid
func (h *GameHandler) Bid(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.BidRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := h.gameController.MakeBid(r.Context(), gameID(r), player.ID, req.Quantity, model.DieFace(req.Face))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.GameFromModel(g))
}

// CallLiar handles POST /api/v1/games/{id}/liar
func (h *GameHandler) CallLiar(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.CallLiar(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.GameFromModel(g))
}

// Forfeit handles POST /api/v1/games/{id}/forfeit
func (h *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.Forfeit(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.GameFromModel(g))
}

// CheckTimeout handles POST /api/v1/games/{id}/timeout. Anyone may ask;
// nothing changes before the reveal deadline has passed.
func (h *GameHandler) CheckTimeout(w http.ResponseWriter, r *http.Request) {
	res, err := h.gameController.CheckTimeout(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	timedOut := make([]string, len(res.TimedOut))
	for i, id := range res.TimedOut {
		timedOut[i] = string(id)
	}
	response.OK(w, response.TimeoutResponse{
		TimedOut: timedOut,
		Game:     response.GameFromModel(res.Game),
		Outcome:  response.RoundOutcomeFromModel(res.Outcome),
	})
}
