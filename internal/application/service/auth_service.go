package service

import (
	"context"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/andesind/catalog-api/pkg/utils"
	"github.com/google/uuid"
)

// AuthService handles back office authentication
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		now:        time.Now,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// GetProfile returns the current user by ID
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}
