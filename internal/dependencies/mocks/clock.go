package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/model"
)

// MockClock only moves when a test moves it. Safe to advance while a
// background sweeper is reading it.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

var _ clock.Clock = (*MockClock)(nil)

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// PassRevealDeadline jumps just past the window opened by a liar call made
// at the current time
func (c *MockClock) PassRevealDeadline() {
	c.Advance(model.RevealTimeout + time.Second)
}
