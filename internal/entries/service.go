package entries

import (
	"context"
	"errors"

	"github.com/ke1ruuu/us/pkg/logger"
	"github.com/ke1ruuu/us/pkg/metrics"
)

var ErrMissingAuthor = errors.New("entry author required")

// Service wraps repository operations with business logic.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Create persists a new entry. The payload is assumed assembled and
// sanitized by the submission coordinator.
func (s *Service) Create(ctx context.Context, e *Entry) (string, error) {
	if e.AuthorID == "" {
		return "", ErrMissingAuthor
	}
	if e.Type == "" {
		e.Type = "note"
	}
	id, err := s.repo.Insert(ctx, e)
	if err != nil {
		logger.Errorf("entries: insert failed: %v", err)
		return "", err
	}
	metrics.EntriesCreated.Inc()
	return id, nil
}

// Delete removes an entry only when the acting user authored it. The
// author check lives in the repository filter itself, not as a separate
// read, so there is no check-then-act gap.
func (s *Service) Delete(ctx context.Context, id, actingUserID string) error {
	if err := s.repo.Delete(ctx, id, actingUserID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Errorf("entries: delete %s failed: %v", id, err)
		}
		return err
	}
	return nil
}

// List returns the shared feed, newest first.
func (s *Service) List(ctx context.Context) ([]*Entry, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		logger.Errorf("entries: list failed: %v", err)
		return nil, err
	}
	return out, nil
}
