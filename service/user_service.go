package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BigDee2008/FAQForge/models"
	"github.com/BigDee2008/FAQForge/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService manages legacy username/password accounts
type UserService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// UserWithRepository sets the user repository
func UserWithRepository(repo repository.UserRepository) UserServiceOption {
	return func(s *UserService) {
		s.userRepo = repo
	}
}

// UserWithLogger sets the logger
func UserWithLogger(logger *slog.Logger) UserServiceOption {
	return func(s *UserService) {
		s.logger = logger
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "users")
	return s
}

// Register hashes the password with bcrypt and stores a new user
func (s *UserService) Register(ctx context.Context, username, password string) (*models.UserRecord, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}

	username = strings.TrimSpace(username)
	var violations []string
	if username == "" {
		violations = append(violations, "username is required")
	}
	if len(password) < minPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.UserRecord{
		Username: username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate returns the user when the password matches its stored hash
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.UserRecord, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
