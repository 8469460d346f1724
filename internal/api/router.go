package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/liarsdice-go/internal/api/handler"
	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/metrics"
	"github.com/mcoot/liarsdice-go/internal/notify"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
	"github.com/mcoot/liarsdice-go/internal/services/game"
	"github.com/mcoot/liarsdice-go/internal/services/leaderboard"
	"github.com/mcoot/liarsdice-go/internal/services/matchmaking"
	"github.com/mcoot/liarsdice-go/internal/services/profile"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger                *slog.Logger
	AuthService           *auth.Service
	ProfileService        *profile.Service
	MatchmakingController *matchmaking.Controller
	GameController        *game.Controller
	LeaderboardService    *leaderboard.Service
	Ledger                ledger.Ledger
	HubManager            *notify.HubManager

	// AdminToken enables /admin routes when set
	AdminToken string
	// AllowedOrigin is the extra origin allowed to open WebSockets ("*" for any)
	AllowedOrigin string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	matchHandler := handler.NewMatchmakingHandler(cfg.MatchmakingController)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)
	ledgerHandler := handler.NewLedgerHandler(cfg.Ledger, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.HubManager, cfg.AllowedOrigin, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Prometheus scrape endpoint lives outside the versioned API
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(middleware.Metrics)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Public read routes
	api.HandleFunc("/leaderboard", leaderboardHandler.Ranking).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/entries", leaderboardHandler.Entries).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{player_id}", profileHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Operator routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminToken(cfg.AdminToken))
	admin.HandleFunc("/mint", ledgerHandler.Mint).Methods(http.MethodPost)

	// Everything else requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/players/logout", playerHandler.Logout).Methods(http.MethodPost)

	protected.HandleFunc("/profile", profileHandler.GetMine).Methods(http.MethodGet)
	protected.HandleFunc("/profile", profileHandler.Set).Methods(http.MethodPut)

	protected.HandleFunc("/matchmaking", matchHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/matchmaking", matchHandler.Leave).Methods(http.MethodDelete)
	protected.HandleFunc("/matchmaking", matchHandler.Status).Methods(http.MethodGet)

	games := protected.PathPrefix("/games/{id}").Subrouter()
	games.HandleFunc("", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/commit", gameHandler.Commit).Methods(http.MethodPost)
	games.HandleFunc("/roll", gameHandler.Roll).Methods(http.MethodPost)
	games.HandleFunc("/hand", gameHandler.Hand).Methods(http.MethodGet)
	games.HandleFunc("/reveal", gameHandler.Reveal).Methods(http.MethodPost)
	games.HandleFunc("/bid", gameHandler.Bid).Methods(http.MethodPost)
	games.HandleFunc("/liar", gameHandler.CallLiar).Methods(http.MethodPost)
	games.HandleFunc("/forfeit", gameHandler.Forfeit).Methods(http.MethodPost)
	games.HandleFunc("/timeout", gameHandler.CheckTimeout).Methods(http.MethodPost)

	protected.HandleFunc("/balance", ledgerHandler.Balance).Methods(http.MethodGet)

	protected.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/events/ws", eventsHandler.WebSocket).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
