package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,32}$`)

// Service implements account registration and authentication.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates an account service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Signup registers a new account. Usernames are trimmed before
// validation; passwords are stored only as bcrypt hashes.
func (s *Service) Signup(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account created", slog.String("username", username))
	return account, nil
}

// Authenticate verifies the username/password pair. Every failure maps
// to ErrInvalidCredentials so callers cannot distinguish an unknown
// username from a wrong password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !VerifyPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}
