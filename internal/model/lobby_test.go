package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entry(id string, rating int) QueueEntry {
	return QueueEntry{PlayerID: PlayerID(id), Rating: rating}
}

func TestMatchQueueFIFO(t *testing.T) {
	q := &MatchQueue{LobbyID: DefaultLobbyID}
	q.Enqueue(entry("a", 1200))
	q.Enqueue(entry("b", 1300))
	q.Enqueue(entry("c", 1100))
	assert.Equal(t, 3, q.Count)

	first, second, ok := q.DequeuePair()
	assert.True(t, ok)
	assert.Equal(t, PlayerID("a"), first.PlayerID)
	assert.Equal(t, PlayerID("b"), second.PlayerID)
	assert.Equal(t, 1, q.Count)
	assert.Equal(t, 1, q.Len())
}

func TestMatchQueueRestoresLonePlayer(t *testing.T) {
	q := &MatchQueue{}
	q.Enqueue(entry("a", 1200))

	_, _, ok := q.DequeuePair()
	assert.False(t, ok)
	assert.Equal(t, 1, q.Count)
	assert.True(t, q.Contains("a"))

	q.Enqueue(entry("b", 1200))
	first, second, ok := q.DequeuePair()
	assert.True(t, ok)
	assert.Equal(t, PlayerID("a"), first.PlayerID)
	assert.Equal(t, PlayerID("b"), second.PlayerID)
	assert.Equal(t, 0, q.Count)
}

func TestMatchQueueEmptyDequeue(t *testing.T) {
	q := &MatchQueue{}
	_, _, ok := q.DequeuePair()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Count)
}

func TestMatchQueueCancel(t *testing.T) {
	q := &MatchQueue{}
	q.Enqueue(entry("a", 1))
	q.Enqueue(entry("b", 2))
	q.Enqueue(entry("c", 3))

	assert.True(t, q.Cancel("b"))
	assert.Equal(t, 2, q.Count)
	assert.Equal(t, PlayerID("a"), q.Entries[0].PlayerID)
	assert.Equal(t, PlayerID("c"), q.Entries[1].PlayerID)

	assert.False(t, q.Cancel("missing"))
	assert.Equal(t, 2, q.Count)
}

func TestEloDistance(t *testing.T) {
	assert.Equal(t, 150, entry("a", 1200).EloDistance(entry("b", 1350)))
	assert.Equal(t, 150, entry("b", 1350).EloDistance(entry("a", 1200)))
}
