package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
)

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, clock.New().Now().Location())
}

func TestExpired(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := mocks.NewMockClock(start)
	deadline := start.Add(time.Minute)

	assert.False(t, clock.Expired(c, nil))
	assert.False(t, clock.Expired(c, &deadline))

	c.Advance(time.Minute)
	assert.False(t, clock.Expired(c, &deadline), "exactly at the deadline is still in time")

	c.Advance(time.Nanosecond)
	assert.True(t, clock.Expired(c, &deadline))
}
