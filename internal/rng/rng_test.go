package rng

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
	"github.com/mcoot/liarsdice-go/internal/model"
)

func TestRollDiceIsDeterministic(t *testing.T) {
	seed := Seed([]byte("game-1"), []byte("round-1"))

	a := RollDice(5, seed)
	b := RollDice(5, seed)
	assert.Equal(t, a, b)
	assert.Len(t, a, 5)
	assert.True(t, a.Valid())
}

func TestRollDiceCoversAllFaces(t *testing.T) {
	seen := map[model.DieFace]bool{}
	hand := RollDice(600, Seed([]byte("coverage"), nil))
	for _, d := range hand {
		assert.True(t, model.ValidFace(d))
		seen[d] = true
	}
	assert.Len(t, seen, 6)
}

func TestRandomSaltDiffersBySeed(t *testing.T) {
	s1 := RandomSalt(Seed([]byte("a"), nil))
	s2 := RandomSalt(Seed([]byte("b"), nil))
	assert.NotEqual(t, s1, s2)
	assert.Equal(t, s1, RandomSalt(Seed([]byte("a"), nil)))
}

func TestSeedConcatenatesInputs(t *testing.T) {
	assert.Equal(t, Seed([]byte("ab"), []byte("c")), Seed([]byte("a"), []byte("bc")))
	assert.NotEqual(t, Seed([]byte("ab"), nil), Seed([]byte("ba"), nil))
}

func TestMixerNeverRepeats(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	m := NewMixer(clk, mocks.NewMockRandom())

	seen := map[[32]byte]bool{}
	for i := 0; i < 100; i++ {
		s := m.Next([]byte("same-context"))
		assert.False(t, seen[s], "seed repeated at iteration %d", i)
		seen[s] = true
	}
}

func TestMixerDeal(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	m := NewMixer(clk, mocks.NewMockRandom())

	hand, salt := m.Deal([]byte("g|1|p"), 3)
	assert.Len(t, hand, 3)
	assert.True(t, hand.Valid())
	assert.NotEqual(t, [32]byte{}, salt)
}
