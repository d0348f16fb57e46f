package domain

import "time"

// Session tracks a refresh token grant for a user. The refresh token itself
// is opaque to the server; only its hash is stored.
type Session struct {
	Syncable
	UserID           string     `json:"user_id"`
	RefreshTokenHash string     `json:"-"`
	UserAgent        string     `json:"user_agent,omitempty"`
	IP               string     `json:"ip,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	LastUsedAt       time.Time  `json:"last_used_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Revoked reports whether the session has been explicitly revoked.
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// Usable reports whether the session can still mint access tokens.
func (s *Session) Usable(now time.Time) bool {
	return !s.Revoked() && !s.Expired(now)
}
