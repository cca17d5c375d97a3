package service

import (
	"context"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/validation"

	"github.com/google/uuid"
)

// PasswordService runs the reset-token flow.
type PasswordService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	ttl       time.Duration
	now       func() time.Time
}

func NewPasswordService(userRepo repository.UserRepository, resetRepo repository.PasswordResetRepository, ttl time.Duration) *PasswordService {
	return &PasswordService{userRepo: userRepo, resetRepo: resetRepo, ttl: ttl, now: time.Now}
}

// RequestReset issues a reset token for the account registered under email.
func (s *PasswordService) RequestReset(ctx context.Context, email string) (*models.PasswordResetToken, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.PasswordResets.WithLabelValues("request", "unknown_email").Inc()
		return nil, models.NewNotFoundError("User", "with that email")
	}

	token := &models.PasswordResetToken{
		Token:      uuid.NewString(),
		UserID:     user.ID,
		Expiration: s.now().Add(s.ttl),
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	observability.PasswordResets.WithLabelValues("request", "ok").Inc()
	return token, nil
}

// ValidateToken returns the token row if it exists and has not expired.
func (s *PasswordService) ValidateToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	row, err := s.resetRepo.GetValid(ctx, token, s.now())
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError("Invalid or expired token")
		}
		return nil, err
	}
	return row, nil
}

// ResetPassword consumes token and sets the new password. A token works once.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return models.NewValidationError("Token and new password are required")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}

	if _, err := s.resetRepo.Consume(ctx, token, s.now(), hash); err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			observability.PasswordResets.WithLabelValues("reset", "invalid").Inc()
			return models.NewValidationError("Invalid or expired password reset token")
		}
		return err
	}
	observability.PasswordResets.WithLabelValues("reset", "ok").Inc()
	return nil
}
