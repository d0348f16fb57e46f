package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Parameters follow the RFC 9106 low-memory recommendation. They are
// embedded in each encoded hash, so they can change without invalidating
// passwords hashed under older settings.
const (
	argonMemoryKiB   = 19 * 1024
	argonPasses      = 2
	argonLanes       = 1
	argonSaltBytes   = 16
	argonDigestBytes = 32

	// Bound the input so a huge password cannot burn CPU during hashing.
	maxPasswordBytes = 1024
)

// hashParams are the settings recovered from an encoded hash string.
type hashParams struct {
	memoryKiB   uint32
	passes      uint32
	lanes       uint8
	digestBytes uint32
}

// HashPassword derives an Argon2id hash and returns it in the standard
// $argon2id$... encoded form.
func HashPassword(password string) (string, error) {
	switch {
	case password == "":
		return "", errors.New("password cannot be empty")
	case len(password) > maxPasswordBytes:
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, argonSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonPasses, argonMemoryKiB, argonLanes, argonDigestBytes)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKiB, argonPasses, argonLanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// VerifyPassword reports whether password matches the encoded hash. The
// stored hash carries its own parameters, so verification works across
// parameter changes. Malformed hashes verify as false rather than
// returning an error that could leak details about stored values.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if len(password) > maxPasswordBytes {
		return false, nil
	}

	salt, digest, params, err := parseEncodedHash(encodedHash)
	if err != nil {
		//nolint:nilerr
		return false, nil
	}

	candidate := argon2.IDKey([]byte(password), salt, params.passes, params.memoryKiB, params.lanes, params.digestBytes)

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

// parseEncodedHash splits a $argon2id$v=..$m=..,t=..,p=..$salt$digest
// string into its parts.
func parseEncodedHash(encoded string) (salt, digest []byte, params *hashParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params = &hashParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memoryKiB, &params.passes, &params.lanes); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	if digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid hash encoding: %w", err)
	}

	//nolint:gosec // digest length is always argonDigestBytes
	params.digestBytes = uint32(len(digest))

	return salt, digest, params, nil
}
