package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/domain"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	user := &domain.User{
		Syncable: domain.Syncable{ID: "user-001"},
		Email:    "alice@example.com",
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user-001", claims.Subject)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService(strings.Repeat("cd", 32), 15*time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{Syncable: domain.Syncable{ID: "user-001"}})
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{Syncable: domain.Syncable{ID: "user-001"}})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestNewTokenService_BadKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Minute, time.Hour)
	require.Error(t, err)
}

func TestRefreshToken_HashIsStable(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	other, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	// Same token always hashes the same, and the hash never equals the token.
	assert.Equal(t, HashRefreshToken(token), HashRefreshToken(token))
	assert.NotEqual(t, token, HashRefreshToken(token))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// Second load returns the same key.
	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	// Stored hex-encoded with restricted permissions.
	raw, err := os.ReadFile(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	decoded, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}
