package service

import (
	"context"
	"strings"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/validation"
)

// AuthService issues sessions and tokens for verified credentials.
type AuthService struct {
	userRepo repository.UserRepository
	sessions auth.SessionStore
	tokens   *auth.TokenIssuer
}

// SignupInput is the payload for POST /auth/signup.
type SignupInput struct {
	Name           string
	Email          string
	Username       string
	Password       string
	PriorSessionID string
}

// LoginInput is the payload for POST /auth/login.
type LoginInput struct {
	Email          string
	Password       string
	PriorSessionID string
}

// AuthResult is what a successful signup or login hands back.
type AuthResult struct {
	User           *models.User
	SessionID      string
	Token          string
	TokenExpiresAt time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessions auth.SessionStore, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = validation.NormalizeEmail(in.Email)

	if in.Name == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Name, email, username and password are required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Name: in.Name, Email: in.Email, Username: in.Username, Role: models.RoleUser}
	if err := s.userRepo.Create(ctx, user, hash); err != nil {
		return nil, err
	}

	return s.issue(ctx, user, in.PriorSessionID)
}

// Login verifies credentials. Failures never create a session and never say
// which of email or password was wrong.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.AuthOutcomes.WithLabelValues("password", "invalid").Inc()
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	hash, err := s.userRepo.GetPasswordHash(ctx, user.ID)
	if err != nil && !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}
	if hash == "" || !auth.VerifyPassword(in.Password, hash) {
		observability.AuthOutcomes.WithLabelValues("password", "invalid").Inc()
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	observability.AuthOutcomes.WithLabelValues("password", "ok").Inc()
	return s.issue(ctx, user, in.PriorSessionID)
}

// issue regenerates the session and signs a token for user.
func (s *AuthService) issue(ctx context.Context, user *models.User, priorSessionID string) (*AuthResult, error) {
	if priorSessionID != "" {
		if err := s.sessions.Destroy(ctx, priorSessionID); err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{User: user, SessionID: sess.ID, Token: token, TokenExpiresAt: exp}, nil
}

// Logout destroys the session. Unknown ids are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Refresh exchanges a validly signed token, expired or not, for a fresh one.
// The signature is checked before the user lookup.
func (s *AuthService) Refresh(ctx context.Context, raw string) (string, time.Time, error) {
	if raw == "" {
		return "", time.Time{}, models.NewUnauthorizedError("Token required")
	}

	claims, err := s.tokens.ParseForRefresh(raw)
	if err != nil {
		observability.AuthOutcomes.WithLabelValues("refresh", "invalid").Inc()
		return "", time.Time{}, models.NewUnauthorizedError("Invalid token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			observability.AuthOutcomes.WithLabelValues("refresh", "orphaned").Inc()
			return "", time.Time{}, models.NewUnauthorizedError("Account no longer exists")
		}
		return "", time.Time{}, err
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", time.Time{}, models.NewInternalError(err)
	}
	observability.AuthOutcomes.WithLabelValues("refresh", "ok").Inc()
	return token, exp, nil
}

// Me returns the caller's profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
