package cryptox

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

const (
	// DigestSize is the length in bytes of a Digest before hex encoding.
	DigestSize = blake2b.Size256

	// MaxKeySize is the longest key Digest accepts.
	MaxKeySize = blake2b.Size
)

// CheckKey reports whether key can key a Digest. Empty keys are allowed and
// mean an unkeyed digest.
func CheckKey(key []byte) error {
	if len(key) > MaxKeySize {
		return fmt.Errorf("cryptox: digest key must be at most %d bytes, got %d", MaxKeySize, len(key))
	}
	return nil
}

// Digest returns the hex-encoded BLAKE2b-256 digest of fields.
//
// Each field is framed as "<len>:<value>;" so that field boundaries are part
// of the input and ("ab", "c") never collides with ("a", "bc"). When key is
// non-empty the digest is keyed (a MAC), which stops anyone without the key
// from minting a matching digest for a fabricated record. Keys longer than
// MaxKeySize are rejected.
func Digest(key []byte, fields ...string) (string, error) {
	h, err := newDigest(key)
	if err != nil {
		return "", err
	}

	for _, f := range fields {
		_, _ = h.Write([]byte(strconv.Itoa(len(f))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(f))
		_, _ = h.Write([]byte{';'})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func newDigest(key []byte) (hash.Hash, error) {
	if len(key) == 0 {
		return blake2b.New256(nil)
	}
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	return blake2b.New256(key)
}
