package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shareIDLength is the length of share tokens. Longer than the default 21
// characters because share ids are bearer capabilities: anyone holding one can
// read the shared content.
const shareIDLength = 32

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "content-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// GenerateShareID creates an unguessable public share token.
// Share ids are unprefixed so they don't reveal what kind of resource
// they point at.
func GenerateShareID() (string, error) {
	id, err := gonanoid.New(shareIDLength)
	if err != nil {
		return "", fmt.Errorf("generate share id: %w", err)
	}
	return id, nil
}
