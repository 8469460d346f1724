// Package commitment implements the salted hash commitments players publish
// before bidding and open when a liar is called.
package commitment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// HashSize and SaltSize are both 32 bytes
const (
	HashSize = sha256.Size
	SaltSize = 32
)

var errBadLength = errors.New("expected 32 bytes")

// Commit returns SHA-256(secret || salt)
func Commit(secret []byte, salt [SaltSize]byte) [HashSize]byte {
	h := sha256.New()
	h.Write(secret)
	h.Write(salt[:])
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Verify recomputes the commitment and compares it against hash
func Verify(secret []byte, salt [SaltSize]byte, hash [HashSize]byte) bool {
	got := Commit(secret, salt)
	return subtle.ConstantTimeCompare(got[:], hash[:]) == 1
}

// ParseHash decodes a hex encoded commitment hash
func ParseHash(s string) ([HashSize]byte, error) {
	var out [HashSize]byte
	if err := decode32(s, out[:]); err != nil {
		return out, err
	}
	return out, nil
}

// ParseSalt decodes a hex encoded salt
func ParseSalt(s string) ([SaltSize]byte, error) {
	var out [SaltSize]byte
	if err := decode32(s, out[:]); err != nil {
		return out, err
	}
	return out, nil
}

func decode32(s string, dst []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return errBadLength
	}
	copy(dst, b)
	return nil
}
