package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/api/request"
	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/model"
)

// LedgerHandler handles token balance endpoints
type LedgerHandler struct {
	ledger ledger.Ledger
	logger *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(l ledger.Ledger, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: l, logger: logger}
}

// Balance handles GET /api/v1/balance
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	balance, err := h.ledger.Balance(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Balance{PlayerID: string(player.ID), Balance: balance})
}

// Mint handles POST /api/v1/admin/mint
func (h *LedgerHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req request.MintRequest
	if !decode(w, r, &req) {
		return
	}

	target := model.PlayerID(req.PlayerID)
	if err := h.ledger.MintToken(r.Context(), target, req.Amount); err != nil {
		WriteError(w, err)
		return
	}
	balance, err := h.ledger.Balance(r.Context(), target)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("tokens minted",
		slog.String("player_id", req.PlayerID),
		slog.Int64("amount", req.Amount),
		slog.Int64("balance", balance),
	)
	response.OK(w, response.Balance{PlayerID: req.PlayerID, Balance: balance})
}
