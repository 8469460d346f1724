package model

import "time"

// DieFace is the value shown on a single die (1..6)
type DieFace int

const (
	MinFace DieFace = 1
	MaxFace DieFace = 6

	// WildFace counts toward any other face when counting a bid
	WildFace DieFace = 1
)

// ValidFace reports whether f is a legal die face
func ValidFace(f DieFace) bool {
	return f >= MinFace && f <= MaxFace
}

// Hand is a player's dice for one round
type Hand []DieFace

// Count returns how many dice in the hand count toward face.
// Ones are wild unless the face being counted is itself one.
func (h Hand) Count(face DieFace) int {
	n := 0
	for _, d := range h {
		if d == face || (d == WildFace && face != WildFace) {
			n++
		}
	}
	return n
}

// Valid reports whether every die shows a legal face
func (h Hand) Valid() bool {
	for _, d := range h {
		if !ValidFace(d) {
			return false
		}
	}
	return true
}

// Bytes encodes the hand as one byte per die, the form that is committed to
func (h Hand) Bytes() []byte {
	out := make([]byte, len(h))
	for i, d := range h {
		out[i] = byte(d)
	}
	return out
}

// HandFromBytes decodes a committed secret back into a hand
func HandFromBytes(b []byte) (Hand, error) {
	h := make(Hand, len(b))
	for i, v := range b {
		h[i] = DieFace(v)
	}
	if !h.Valid() {
		return nil, ErrInvalidDice
	}
	return h, nil
}

// Commitment is a published hash of a hand plus salt
type Commitment struct {
	Hash     [32]byte
	Revealed bool
	Cheater  bool // a cheater commitment is always also revealed
}

// MarkCheater flags a failed reveal
func (c *Commitment) MarkCheater() {
	c.Cheater = true
	c.Revealed = true
}

// Bid is a claim that at least Quantity dice show Face across all hands
type Bid struct {
	Quantity int
	Face     DieFace
	Bidder   PlayerID
	PlacedAt time.Time
}

// IsHigherThan reports whether b strictly outranks other:
// more dice, or the same number of dice on a higher face.
func (b Bid) IsHigherThan(other Bid) bool {
	if b.Quantity != other.Quantity {
		return b.Quantity > other.Quantity
	}
	return b.Face > other.Face
}

// ValidOpening reports whether b is acceptable as the first bid of a round
func (b Bid) ValidOpening() bool {
	return b.Quantity >= 1 && ValidFace(b.Face)
}

// PrivateHand is the server-dealt hand and salt for one player in one round.
// It is stored apart from the game and only ever returned to its owner.
type PrivateHand struct {
	GameID   GameID
	PlayerID PlayerID
	Round    int
	Dice     Hand
	Salt     [32]byte
}
