package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// MaxNameLength bounds display and profile names, in runes
const MaxNameLength = 32

// CleanName trims a display name and rejects empty or overlong names
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// Player is the identity behind a session. Guests exist only as long as
// their storage TTL; registered players also have credentials.
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool
	CreatedAt   time.Time
}

// RegisteredPlayer holds the login details of a registered player, kept apart
// from Player so sessions never carry the hash
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
