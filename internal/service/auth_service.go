package service

import (
	"errors"
	"fmt"
	"time"

	"notefold-server/internal/domain"
	"notefold-server/internal/repository"
	"notefold-server/pkg/hash"
	"notefold-server/pkg/jwt"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExp time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}
}

// Signup registers a new user and returns a token for the fresh account.
// Email uniqueness is checked up front for the common case; the repository's
// conflict error catches the concurrent-signup race the check cannot.
func (s *AuthService) Signup(email, password string) (*domain.TokenResponse, error) {
	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := hash.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(email)
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*domain.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !hash.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(email)
}

// Resolve is the identity gate every protected operation passes through: it
// validates the bearer token and loads the user record for the embedded
// subject. Any failure, including a subject whose user no longer exists,
// yields the same unauthenticated error.
func (s *AuthService) Resolve(tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to look up token subject: %w", err)
	}

	return user, nil
}

func (s *AuthService) issueToken(email string) (*domain.TokenResponse, error) {
	token, err := jwt.GenerateToken(email, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
