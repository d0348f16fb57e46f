package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cerebero/cerebero-server/internal/auth"
	"github.com/cerebero/cerebero-server/internal/domain"
	domainerrors "github.com/cerebero/cerebero-server/internal/errors"
	"github.com/cerebero/cerebero-server/internal/store"
	"github.com/cerebero/cerebero-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate *validator.Validate = validation.New()

// AuthService handles user authentication: signup, login, token refresh,
// and identity resolution. Session lifecycle is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// SignupRequest contains new account credentials.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	UserAgent   string `json:"-"` // Extracted from request by handler
	IPAddress   string `json:"-"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// OAuthLoginRequest carries a verified identity from an OAuth provider.
// The handler is responsible for having verified the provider's assertion
// before calling in.
type OAuthLoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	ProviderID  string `json:"provider_id" validate:"required"`
	UserAgent   string `json:"-"`
	IPAddress   string `json:"-"`
}

// RefreshRequest contains the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	UserAgent    string `json:"-"`
	IPAddress    string `json:"-"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Signup creates a new credentials account and logs it in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Provider:     domain.ProviderCredentials,
		PasswordHash: passwordHash,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	// The store enforces email uniqueness; a duplicate insert surfaces
	// as a conflict here rather than trusting a pre-check.
	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed up", "user_id", user.ID, "email", user.Email)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Don't leak whether email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasPassword() {
		// OAuth-only account
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time", "user_id", user.ID, "error", err)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// OAuthLogin signs a verified OAuth identity in, creating the account on
// first login. An existing credentials account with the same email is
// linked to the provider rather than duplicated.
func (s *AuthService) OAuthLogin(ctx context.Context, req OAuthLoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		// Existing account: link provider identity if not already linked
		if user.ProviderID == "" {
			user.Provider = domain.ProviderGoogle
			user.ProviderID = req.ProviderID
		}
		if user.AvatarURL == "" && req.AvatarURL != "" {
			user.AvatarURL = req.AvatarURL
		}
		user.LastLoginAt = time.Now()
		user.Touch()
		if updateErr := s.store.UpdateUser(ctx, user); updateErr != nil {
			return nil, fmt.Errorf("update user: %w", updateErr)
		}
	case domainerrors.Is(err, store.ErrNotFound):
		user = &domain.User{
			Email:       req.Email,
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
			Provider:    domain.ProviderGoogle,
			ProviderID:  req.ProviderID,
			LastLoginAt: time.Now(),
		}
		user.InitTimestamps()
		if createErr := s.store.CreateUser(ctx, user); createErr != nil {
			return nil, fmt.Errorf("create user: %w", createErr)
		}
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in via provider", "user_id", user.ID, "provider", user.Provider)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens generates new tokens using a refresh token.
// The old refresh token is invalidated (token rotation).
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes the session holding the given refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessionService.RevokeSession(ctx, refreshToken)
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by the authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	user, err := s.resolveIdentity(ctx, claims)
	if err != nil {
		return nil, nil, err
	}

	return user, claims, nil
}

// resolveIdentity maps token claims to a concrete user record. Tokens
// normally carry the user id; if one is missing the email claim is used
// as a fallback lookup. Resolution happens on every request.
func (s *AuthService) resolveIdentity(ctx context.Context, claims *auth.AccessClaims) (*domain.User, error) {
	if claims == nil {
		return nil, domainerrors.Unauthorized("no session")
	}

	if claims.UserID != "" {
		user, err := s.store.GetUser(ctx, claims.UserID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Unauthorized("user not found")
			}
			return nil, domainerrors.Internal("identity resolution failed").WithCause(err)
		}
		return user, nil
	}

	if claims.Email == "" {
		return nil, domainerrors.Unauthorized("no session")
	}

	user, err := s.store.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user not found")
		}
		return nil, domainerrors.Internal("identity resolution failed").WithCause(err)
	}

	return user, nil
}
