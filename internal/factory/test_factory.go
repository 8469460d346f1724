package factory

import (
	"time"

	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
	ledgermemory "github.com/mcoot/liarsdice-go/internal/ledger/memory"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
	"github.com/mcoot/liarsdice-go/internal/services/matchmaking"
	"github.com/mcoot/liarsdice-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockRandom   *mocks.MockRandom
	MockNotifier *mocks.MockNotifier
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(matchmaking.DefaultConfig())
}

// NewTestAppWithConfig creates a test App serving the given lobby
func NewTestAppWithConfig(cfg matchmaking.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockNotifier := mocks.NewMockNotifier()

	app := newWithDependencies(dependencies{
		store:       memory.New(),
		ledger:      ledgermemory.New(),
		clock:       mockClock,
		random:      mockRandom,
		auth:        auth.DefaultConfig(),
		matchmaking: cfg,
		notifier:    mockNotifier,
	})

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockRandom:   mockRandom,
		MockNotifier: mockNotifier,
	}
}
