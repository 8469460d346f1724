package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/api/request"
	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
)

// PlayerHandler serves the account endpoints
type PlayerHandler struct {
	authService *auth.Service
}

func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{authService: authService}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if !decode(w, r, &req) {
		return
	}
	h.issue(w, r, http.StatusCreated, func(ctx context.Context) (*auth.Session, error) {
		return h.authService.CreateGuestPlayer(ctx, req.DisplayName)
	})
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	h.issue(w, r, http.StatusCreated, func(ctx context.Context) (*auth.Session, error) {
		return h.authService.RegisterPlayer(ctx, req.Username, req.Password, req.DisplayName)
	})
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	h.issue(w, r, http.StatusOK, func(ctx context.Context) (*auth.Session, error) {
		return h.authService.Login(ctx, req.Username, req.Password)
	})
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.OK(w, response.PlayerFromModel(player))
}

// Logout handles POST /api/v1/players/logout. The token used for the
// request stops validating immediately.
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// issue runs a session-creating call and writes the token on success
func (h *PlayerHandler) issue(w http.ResponseWriter, r *http.Request, status int, create func(context.Context) (*auth.Session, error)) {
	session, err := create(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromSession(session))
}
