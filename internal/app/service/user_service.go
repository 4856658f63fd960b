package service

import (
	"context"
	"fmt"
	"strings"

	"codeclub/internal/common"
	"codeclub/internal/common/security"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Level       *string `json:"level,omitempty"`
	Password    *string `json:"password,omitempty"`
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *UserService) ListMembers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return nil, common.Errorf("display name cannot be empty: %w", common.ErrValidation)
		}
		user.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			return nil, common.Errorf("malformed email address: %w", common.ErrValidation)
		}
		user.Email = *req.Email
	}
	if req.Level != nil {
		if !model.ValidLevel(*req.Level) {
			return nil, common.Errorf("unknown level %q: %w", *req.Level, common.ErrValidation)
		}
		user.Level = *req.Level
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, common.Errorf("password cannot be empty: %w", common.ErrValidation)
		}
		hashed, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// ChangeRole is admin-only; the handler enforces the gate.
func (s *UserService) ChangeRole(ctx context.Context, userID int64, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, common.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
