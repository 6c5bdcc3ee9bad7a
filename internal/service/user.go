package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// UserService handles profile updates.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// UpdateProfileInput is a partial profile update: nil leaves a field alone.
type UpdateProfileInput struct {
	Name   *string
	Avatar *string
}

// UpdateProfile overwrites the target user's name and/or avatar.
//
// Only the account owner may do this: the caller identity comes from the
// verified session token and must equal the target user ID. Email, role,
// and password are not reachable from this operation.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID string, in UpdateProfileInput) (model.PublicUser, error) {
	if callerID != targetID {
		return model.PublicUser{}, apperror.Forbidden("you can only update your own profile")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.PublicUser{}, apperror.ValidationFailed("name", "name is required")
		}
		user.Name = name
	}
	if in.Avatar != nil {
		user.AvatarURL = *in.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("userID", targetID),
			slog.String("error", err.Error()),
		)
		return model.PublicUser{}, fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("userID", targetID))
	return user.Public(), nil
}
