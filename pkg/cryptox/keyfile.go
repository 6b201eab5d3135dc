package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DigestKeySize is the size of generated digest keys in bytes.
const DigestKeySize = 32

// LoadOrCreateKey reads a base64url digest key from path, generating and
// persisting a fresh one when the file does not exist yet.
//
// Losing this file invalidates every digest produced with it, so back it up
// alongside the database.
func LoadOrCreateKey(path string) ([]byte, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		key, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("cryptox: decode key file %s: %w", path, err)
		}
		if len(key) == 0 {
			return nil, fmt.Errorf("cryptox: key file %s is empty", path)
		}
		if err := CheckKey(key); err != nil {
			return nil, fmt.Errorf("cryptox: key file %s: %w", path, err)
		}
		return key, nil

	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, err
		}

		key := make([]byte, DigestKeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("cryptox: generate key: %w", err)
		}

		encoded := base64.RawURLEncoding.EncodeToString(key)
		if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
			return nil, err
		}
		return key, nil

	default:
		return nil, err
	}
}
