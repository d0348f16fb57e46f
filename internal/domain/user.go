package domain

import "time"

// AuthProvider identifies how a user signed up.
type AuthProvider string

const (
	// ProviderCredentials is email + password signup.
	ProviderCredentials AuthProvider = "credentials"
	// ProviderGoogle is Google OAuth signup.
	ProviderGoogle AuthProvider = "google"
)

// User represents an authenticated user account in the system.
type User struct {
	Syncable
	Email        string       `json:"email"`
	DisplayName  string       `json:"display_name"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Provider     AuthProvider `json:"provider"`
	ProviderID   string       `json:"provider_id,omitempty"`
	PasswordHash string       `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	LastLoginAt  time.Time    `json:"last_login_at"`
}

// HasPassword returns true if the user can authenticate with credentials.
// OAuth-only accounts have no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
