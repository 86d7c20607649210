package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	issuer    auth.TokenIssuer
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, issuer auth.TokenIssuer, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		issuer:    issuer,
		logger:    logger,
		validator: validator,
	}
}

// Register creates a pending user.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	s.logger.Info("Registering user", "email", email)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RolePending,
		Status:       models.StatusIncomplete,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, storeError("create user", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return models.NewUserResponse(user), nil
}

// Login verifies credentials and issues a token reflecting the stored
// role and status.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("get user by email", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("Failed login", "user_id", user.ID)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.issuer.Issue(auth.ClaimsForUser(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &models.TokenResponse{AccessToken: token, TokenType: models.TokenTypeBearer}, nil
}

// Me reads the user from the store, not from the token.
func (s *authService) Me(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}
	return models.NewUserResponse(user), nil
}
