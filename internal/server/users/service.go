// Package users implements account registration, authentication, and the
// user-existence bookkeeping the item store depends on.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
)

type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
	timeout       time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    cfg.BcryptCost,
		timeout:       cfg.StoreTimeout,
	}
}

func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Register creates an account and returns it together with a freshly issued
// session token. The user id equals the username (preserved public
// contract).
func (s *Service) Register(ctx context.Context, username, password string) (*User, string, error) {

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	// Cheap pre-check before the bcrypt work; the atomic guard against a
	// concurrent duplicate is still Create itself.
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", fmt.Errorf("%w: username is taken", common.ErrorAlreadyExists)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := s.repo.Create(ctx, &User{ID: username, Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrorUnavailable) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return user, token, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		if errors.Is(err, common.ErrorUnavailable) {
			return nil, "", err
		}
		return nil, "", common.ErrorInternal
	}

	if user.PasswordHash == "" || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Get returns the user for id, common.ErrorNotFound when the account
// vanished after its token was issued.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	return s.repo.GetByID(ctx, id)
}
