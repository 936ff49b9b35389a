package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ke1ruuu/us/internal/models"
	"github.com/ke1ruuu/us/pkg/logger"
)

// ErrInvalidCredentials is deliberately uniform: it covers unknown username
// and wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Authenticate verifies a username/password pair and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		logger.Errorf("users: lookup of %q failed: %v", username, err)
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the user for a validated session, or nil.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// EnsureUser creates the account when it does not exist yet; used to seed
// the two account holders at startup.
func (s *Service) EnsureUser(ctx context.Context, username, displayName, password string) (*models.User, error) {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: username, DisplayName: displayName, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Infof("users: created account %q", username)
	return u, nil
}
