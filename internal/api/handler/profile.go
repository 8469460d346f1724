package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/api/request"
	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/services/profile"
)

// ProfileHandler handles rating profile endpoints
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMine handles GET /api/v1/profile, creating the profile on first use
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	p, err := h.profiles.EnsureProfile(r.Context(), player.ID, player.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.ProfileFromModel(p))
}

// Set handles PUT /api/v1/profile
func (h *ProfileHandler) Set(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SetProfileRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.profiles.SetProfile(r.Context(), player.ID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.ProfileFromModel(p))
}

// Get handles GET /api/v1/profiles/{player_id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	p, err := h.profiles.GetProfile(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.ProfileFromModel(p))
}
