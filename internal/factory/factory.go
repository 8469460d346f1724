package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/config"
	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/dependencies/random"
	"github.com/mcoot/liarsdice-go/internal/ledger"
	ledgermemory "github.com/mcoot/liarsdice-go/internal/ledger/memory"
	ledgerpostgres "github.com/mcoot/liarsdice-go/internal/ledger/postgres"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/notify"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
	"github.com/mcoot/liarsdice-go/internal/services/game"
	"github.com/mcoot/liarsdice-go/internal/services/leaderboard"
	"github.com/mcoot/liarsdice-go/internal/services/matchmaking"
	"github.com/mcoot/liarsdice-go/internal/services/profile"
	"github.com/mcoot/liarsdice-go/internal/services/sweeper"
	"github.com/mcoot/liarsdice-go/internal/storage"
	"github.com/mcoot/liarsdice-go/internal/storage/memory"
	redisstorage "github.com/mcoot/liarsdice-go/internal/storage/redis"
)

// Backend type constants
const (
	StorageTypeMemory  = config.BackendMemory
	StorageTypeRedis   = config.BackendRedis
	LedgerTypeMemory   = config.BackendMemory
	LedgerTypePostgres = config.BackendPostgres
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Ledger  ledger.Ledger

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService           *auth.Service
	ProfileService        *profile.Service
	LeaderboardService    *leaderboard.Service
	GameController        *game.Controller
	MatchmakingController *matchmaking.Controller
	Sweeper               *sweeper.Sweeper

	// Notifications
	HubManager *notify.HubManager
	Notifier   notify.Notifier

	closers []func()
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Matchmaking selects the lobby and stake (optional)
	Matchmaking matchmaking.Config
	// SweepInterval is how often reveal timeouts are checked (optional)
	SweepInterval time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// LedgerType selects the token ledger ("memory" or "postgres")
	// If empty, defaults to "memory"
	LedgerType string
	// DatabaseURL is the Postgres DSN (required if LedgerType is "postgres")
	DatabaseURL string
}

// ConfigFromEnv maps environment settings onto a factory Config
func ConfigFromEnv(cfg *config.Config, logger *slog.Logger) Config {
	fc := Config{
		AuthConfig: auth.Config{
			SessionDuration: cfg.SessionDuration,
			Secret:          []byte(cfg.JWTSecret),
		},
		Matchmaking: matchmaking.Config{
			LobbyID: model.LobbyID(cfg.LobbyID),
			Stake:   cfg.Stake,
		},
		SweepInterval: cfg.SweepInterval,
		Logger:        logger,
		StorageType:   cfg.StorageType,
		LedgerType:    cfg.LedgerType,
		DatabaseURL:   cfg.DatabaseURL,
	}
	if cfg.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []func()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisStore
		closers = append(closers, func() { _ = redisStore.Close() })
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create the token ledger
	var tokens ledger.Ledger
	ledgerType := cfg.LedgerType
	if ledgerType == "" {
		ledgerType = LedgerTypeMemory
	}

	switch ledgerType {
	case LedgerTypeMemory:
		tokens = ledgermemory.New()
	case LedgerTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DatabaseURL required when LedgerType is postgres")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := ledgerpostgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("ensure ledger schema: %w", err)
		}
		tokens = pg
		closers = append(closers, pg.Close)
	default:
		return nil, errors.New("invalid LedgerType: must be 'memory' or 'postgres'")
	}

	app := newWithDependencies(dependencies{
		store:         store,
		ledger:        tokens,
		clock:         clock.New(),
		random:        random.New(),
		auth:          cfg.AuthConfig,
		matchmaking:   cfg.Matchmaking,
		sweepInterval: cfg.SweepInterval,
		logger:        logger,
	})
	app.closers = append(app.closers, closers...)
	return app, nil
}

// dependencies are the pieces New picks from its Config; tests supply
// their own
type dependencies struct {
	store         storage.Storage
	ledger        ledger.Ledger
	clock         clock.Clock
	random        random.Random
	auth          auth.Config
	matchmaking   matchmaking.Config
	sweepInterval time.Duration
	logger        *slog.Logger

	// notifier replaces the hub publisher when set
	notifier notify.Notifier
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies) *App {
	logger := deps.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	hubManager := notify.NewHubManager(logger)
	var notifier notify.Notifier = notify.NewPublisher(hubManager, response.EncodeNotification, logger)
	if deps.notifier != nil {
		notifier = deps.notifier
	}

	// Create services
	authService := auth.New(deps.store, deps.clock, deps.auth)
	profileService := profile.New(deps.store, deps.clock, notifier, logger)
	leaderboardService := leaderboard.New(deps.store, deps.clock, notifier, logger)
	gameController := game.NewController(deps.store, deps.ledger, profileService, leaderboardService, notifier, deps.clock, deps.random, logger)
	matchmakingController := matchmaking.NewController(deps.store, gameController, profileService, deps.ledger, notifier, deps.clock, logger, deps.matchmaking)
	sweep := sweeper.New(gameController, authService, deps.clock, deps.sweepInterval, logger)

	return &App{
		Storage:               deps.store,
		Ledger:                deps.ledger,
		Clock:                 deps.clock,
		Random:                deps.random,
		AuthService:           authService,
		ProfileService:        profileService,
		LeaderboardService:    leaderboardService,
		GameController:        gameController,
		MatchmakingController: matchmakingController,
		Sweeper:               sweep,
		HubManager:            hubManager,
		Notifier:              notifier,
		closers:               []func(){hubManager.Close},
	}
}

// Close releases backend connections and disconnects event streams
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
