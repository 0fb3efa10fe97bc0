package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Service implements signup and login over a user repository.
type Service struct {
	repo   Repository
	issuer *TokenIssuer
	logger zerolog.Logger
}

// NewService creates the auth service.
func NewService(repo Repository, issuer *TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		logger: log.With().Str("component", "auth").Logger(),
	}
}

// Signup registers a new user and returns its ID.
func (s *Service) Signup(ctx context.Context, email, password string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return 0, errors.New("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, email, string(hash))
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("user_id", id).Msg("User registered")
	return id, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", User{}, ErrInvalidCredentials
	}

	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// Issuer exposes the token issuer for middleware validation.
func (s *Service) Issuer() *TokenIssuer {
	return s.issuer
}
