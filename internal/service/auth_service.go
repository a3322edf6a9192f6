package service

import (
	"context"
	"errors"
	"strings"

	"geolog/config"
	"geolog/internal/auth"
	"geolog/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCreds    = errors.New("invalid email or password")
	ErrAccountDisabled = errors.New("account is disabled")
)

type credentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Tokens is an access/refresh pair sharing one session id.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
}

type AuthService struct {
	cfg   *config.JWTConfig
	users credentialStore
}

func NewAuthService(cfg *config.JWTConfig, users credentialStore) *AuthService {
	return &AuthService{cfg: cfg, users: users}
}

// Login checks the password and starts a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCreds
		}
		return nil, nil, err
	}
	if u.PasswordHash == "" {
		return nil, nil, ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCreds
	}
	if !u.Enabled {
		return nil, nil, ErrAccountDisabled
	}
	tokens, err := s.issue(u, auth.NewSessionID())
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Refresh issues a new pair for the same session. Roles are re-read so a
// role change takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := auth.ParseRefreshToken(s.cfg, refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	if !u.Enabled {
		return nil, ErrAccountDisabled
	}
	return s.issue(u, claims.ID)
}

func (s *AuthService) issue(u *models.User, sessionID string) (*Tokens, error) {
	access, err := auth.GenerateAccessToken(s.cfg, u.ID, u.RoleNames(), sessionID)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(s.cfg, u.ID, sessionID)
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh, SessionID: sessionID}, nil
}
