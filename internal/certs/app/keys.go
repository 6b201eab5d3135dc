package app

import (
	"fmt"
	"log/slog"

	"github.com/usapupgrade/certs/pkg/cryptox"
)

// InitHashKey resolves the certificate digest key.
//
// Sources, in order:
//   - CERT_HASH_KEY: used verbatim.
//   - CERT_HASH_KEY_FILE: base64url key file, generated on first start.
//   - neither: digests are unkeyed BLAKE2b-256.
//
// Changing the key after certificates exist makes every stored hash fail
// verification.
func InitHashKey(cfg Config, logger *slog.Logger) ([]byte, error) {
	switch {
	case cfg.HashKey != "":
		if err := cryptox.CheckKey([]byte(cfg.HashKey)); err != nil {
			return nil, fmt.Errorf("CERT_HASH_KEY: %w", err)
		}
		logger.Info("certificate hash key loaded from environment")
		return []byte(cfg.HashKey), nil

	case cfg.HashKeyFile != "":
		key, err := cryptox.LoadOrCreateKey(cfg.HashKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load hash key: %w", err)
		}
		logger.Info("certificate hash key loaded", "path", cfg.HashKeyFile)
		return key, nil

	default:
		logger.Warn("no certificate hash key configured, digests are unkeyed")
		return nil, nil
	}
}
