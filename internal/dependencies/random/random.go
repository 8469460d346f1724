// Package random is the entropy source behind game ids and dice seeds
package random

import (
	"crypto/rand"
	"math/big"
)

// Random supplies unpredictable values. Tests swap in a queue-driven mock.
type Random interface {
	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) string

	// Bytes returns n bytes of entropy
	Bytes(n int) []byte
}

// Crypto reads from crypto/rand
type Crypto struct{}

func New() Random {
	return Crypto{}
}

func (Crypto) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	size := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			panic("random: crypto source failed: " + err.Error())
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}

func (Crypto) Bytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}
