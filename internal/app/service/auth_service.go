package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeclub/internal/common"
	"codeclub/internal/common/security"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"
	"codeclub/internal/platform/cache"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   cache.TokenStore
}

func NewAuthService(userRepo repository.UserRepository, tokens cache.TokenStore) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

type SignupRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	LoginField string `json:"login_field"` // Can be username or email
	Password   string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.Errorf("username, email and password are required: %w", common.ErrValidation)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, common.Errorf("malformed email address: %w", common.ErrValidation)
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		DisplayName:    req.DisplayName,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleMember, // Default role
		Level:          model.LevelBeginner,
	}

	// The repo error carries the client-facing message on a duplicate
	// username or email, so it goes back as-is.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.LoginField == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	// Try finding by email first, then by username
	user, err := s.userRepo.FindByEmail(ctx, req.LoginField)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
		}
	}

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, jti string, expiry time.Time) error {
	if jti == "" {
		return common.ErrBadRequest
	}
	if err := s.tokens.Revoke(ctx, jti, expiry); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
