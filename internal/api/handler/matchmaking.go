package handler

import (
	"net/http"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/services/matchmaking"
)

// MatchmakingHandler handles the matchmaking queue endpoints
type MatchmakingHandler struct {
	matchmaking *matchmaking.Controller
}

// NewMatchmakingHandler creates a new matchmaking handler
func NewMatchmakingHandler(matchmaking *matchmaking.Controller) *MatchmakingHandler {
	return &MatchmakingHandler{matchmaking: matchmaking}
}

// Join handles POST /api/v1/matchmaking. A player who completes a pair gets
// the new game back straight away; otherwise they wait for match_found.
func (h *MatchmakingHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	res, err := h.matchmaking.FindMatch(r.Context(), *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	if res.Game == nil {
		response.Accepted(w, response.MatchResponse{
			Status:    response.MatchSearching,
			QueueSize: res.QueueSize,
		})
		return
	}

	g := response.GameFromModel(res.Game)
	opponent := response.QueueEntryFromModel(*res.Opponent)
	response.Created(w, response.MatchResponse{
		Status:    response.MatchFound,
		QueueSize: res.QueueSize,
		Game:      &g,
		Opponent:  &opponent,
	})
}

// Leave handles DELETE /api/v1/matchmaking
func (h *MatchmakingHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.matchmaking.CancelMatch(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Status handles GET /api/v1/matchmaking
func (h *MatchmakingHandler) Status(w http.ResponseWriter, r *http.Request) {
	queue, err := h.matchmaking.Status(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.QueueFromModel(queue))
}
