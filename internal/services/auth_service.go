package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenBytes is the amount of randomness in a bearer token.
const tokenBytes = 32

// AuthService handles signup, login and bearer token resolution.
type AuthService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     logger.With(zap.String("component", "auth")),
	}
}

// Signup registers a new user with a fresh token.
func (s *AuthService) Signup(email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("all fields required: %w", ErrValidation)
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
		Token:    token,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login checks the credentials and returns the user with their stored token.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

// RotateToken issues a new token for the user; the previous one stops
// resolving immediately.
func (s *AuthService) RotateToken(userID int64) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	if err := s.userRepo.UpdateToken(userID, token); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("failed to rotate token: %w", err)
	}
	s.logger.Info("token rotated", zap.Int64("user_id", userID))
	return token, nil
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
