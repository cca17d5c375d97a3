package service

import (
	"context"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID       uint
	Name         *string
	Bio          *string
	ProfileImage *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, page repository.Page) ([]models.User, bool, error) {
	users, err := s.userRepo.List(ctx, page.Peek())
	if err != nil {
		return nil, false, err
	}
	users, more := repository.Trim(users, page)
	return users, more, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 100

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		if len(name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		user.Name = name
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*in.ProfileImage)
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's relations and soft-deletes the account.
// Existing sessions are rejected lazily by the auth guard.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}
