package model

import "time"

// LobbyID identifies a matchmaking lobby. Each lobby owns its own queue.
type LobbyID string

// DefaultLobbyID is used when no lobby is configured
const DefaultLobbyID LobbyID = "main"

// QueueEntry is a player waiting for a match
type QueueEntry struct {
	PlayerID   PlayerID
	Name       string
	Rating     int
	EnqueuedAt time.Time
}

// EloDistance returns the absolute rating gap between two queued players
func (e QueueEntry) EloDistance(other QueueEntry) int {
	d := e.Rating - other.Rating
	if d < 0 {
		return -d
	}
	return d
}

// MatchQueue is a lobby's FIFO of players looking for a game
type MatchQueue struct {
	LobbyID   LobbyID
	Entries   []QueueEntry
	Count     int
	UpdatedAt time.Time
}

// Len returns the number of queued players
func (q *MatchQueue) Len() int {
	return len(q.Entries)
}

// Contains returns true if the player is queued
func (q *MatchQueue) Contains(playerID PlayerID) bool {
	for _, e := range q.Entries {
		if e.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Enqueue appends a player to the back of the queue
func (q *MatchQueue) Enqueue(entry QueueEntry) {
	q.Entries = append(q.Entries, entry)
	q.Count++
}

// DequeuePair pops the two longest waiting players. With fewer than two
// players queued the queue is left unchanged and ok is false.
func (q *MatchQueue) DequeuePair() (first, second QueueEntry, ok bool) {
	if len(q.Entries) == 0 {
		return first, second, false
	}
	first = q.Entries[0]
	q.Entries = q.Entries[1:]
	q.Count--

	if len(q.Entries) == 0 {
		// Put the lone player back at the front
		q.Entries = append([]QueueEntry{first}, q.Entries...)
		q.Count++
		return QueueEntry{}, QueueEntry{}, false
	}
	second = q.Entries[0]
	q.Entries = q.Entries[1:]
	q.Count--
	return first, second, true
}

// Cancel removes a player from anywhere in the queue, keeping everyone else
// in order. It reports whether the player was found.
func (q *MatchQueue) Cancel(playerID PlayerID) bool {
	for i, e := range q.Entries {
		if e.PlayerID == playerID {
			q.Entries = append(q.Entries[:i:i], q.Entries[i+1:]...)
			q.Count--
			return true
		}
	}
	return false
}
