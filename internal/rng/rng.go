// Package rng derives dice and salts from hashed seeds. Every call builds a
// fresh generator from its seed, so the same seed always yields the same
// output and no generator state is shared between calls.
package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"sync/atomic"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/dependencies/random"
	"github.com/mcoot/liarsdice-go/internal/model"
)

// Seed hashes a context and extra entropy into a generator seed
func Seed(context, extra []byte) [32]byte {
	h := sha256.New()
	h.Write(context)
	h.Write(extra)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NewGenerator returns a generator seeded deterministically from seed
func NewGenerator(seed [32]byte) *rand.Rand {
	return rand.New(rand.NewChaCha8(seed))
}

// RollDice returns n dice, each uniform over 1..6
func RollDice(n int, seed [32]byte) model.Hand {
	gen := NewGenerator(seed)
	hand := make(model.Hand, n)
	for i := range hand {
		hand[i] = model.DieFace(gen.IntN(int(model.MaxFace)) + 1)
	}
	return hand
}

// RandomSalt returns 32 bytes derived from seed
func RandomSalt(seed [32]byte) [32]byte {
	gen := NewGenerator(seed)
	var salt [32]byte
	for i := 0; i < len(salt); i += 8 {
		binary.LittleEndian.PutUint64(salt[i:], gen.Uint64())
	}
	return salt
}

// Mixer produces seeds that never repeat. Each seed covers the caller's
// context, the current time in microseconds, a private counter and fresh
// entropy from the random source.
type Mixer struct {
	clock  clock.Clock
	random random.Random
	nonce  atomic.Uint64
}

// NewMixer creates a Mixer
func NewMixer(clk clock.Clock, rnd random.Random) *Mixer {
	return &Mixer{clock: clk, random: rnd}
}

// Next returns a fresh seed for the given context
func (m *Mixer) Next(context []byte) [32]byte {
	extra := make([]byte, 16, 48)
	binary.BigEndian.PutUint64(extra[0:8], uint64(m.clock.Now().UnixMicro()))
	binary.BigEndian.PutUint64(extra[8:16], m.nonce.Add(1))
	extra = append(extra, m.random.Bytes(32)...)
	return Seed(context, extra)
}

// Deal rolls a hand of n dice and a salt from two independent seeds
func (m *Mixer) Deal(context []byte, n int) (model.Hand, [32]byte) {
	hand := RollDice(n, m.Next(context))
	salt := RandomSalt(m.Next(context))
	return hand, salt
}
