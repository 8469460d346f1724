package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/ranking"
	"github.com/mcoot/liarsdice-go/internal/services/leaderboard"
)

// DefaultLeaderboardLimit applies when no limit is given
const DefaultLeaderboardLimit = 20

// LeaderboardHandler handles ranking endpoints
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLeaderboardLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, NewInvalidRequestError("limit must be a non-negative integer")
	}
	return limit, nil
}

// Ranking handles GET /api/v1/leaderboard?metric=&limit=
func (h *LeaderboardHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	metric, err := ranking.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	rows, err := h.leaderboard.Ranking(r.Context(), metric, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.RankingFromModel(rows))
}

// Entries handles GET /api/v1/leaderboard/entries?limit=
func (h *LeaderboardHandler) Entries(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.leaderboard.Entries(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.LeaderboardEntriesFromModel(entries))
}
