// Package auth provides authentication and authorization functionality.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PASETO v4.local requires a 256-bit symmetric key, stored on disk as hex.
const symmetricKeyBytes = 32

// LoadOrGenerateKey returns the PASETO v4 symmetric key for access tokens,
// reading <dataPath>/auth.key if present and minting a fresh key otherwise.
// A generated key is persisted before it is returned, so restarts keep
// issued tokens valid.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, "auth.key")

	//#nosec G304 -- Auth key path is derived from the configured data path
	raw, err := os.ReadFile(keyPath)
	if err == nil {
		return decodeKeyFile(raw)
	}

	key := make([]byte, symmetricKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}

func decodeKeyFile(raw []byte) ([]byte, error) {
	keyHex := strings.TrimSpace(string(raw))
	if len(keyHex) != hex.EncodedLen(symmetricKeyBytes) {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", hex.EncodedLen(symmetricKeyBytes), len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
	}
	return key, nil
}
