// Package usage keeps an audit trail of processed requests.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Service records and queries usage.
type Service struct {
	repo Repo
	now  func() time.Time
}

// NewService creates a new usage service
func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores one record.
func (s *Service) Record(ctx context.Context, r *Record) error {
	if err := s.repo.Create(ctx, r); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// List returns one page of records.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, int64, error) {
	return s.repo.List(ctx, f)
}

// Stats aggregates the last window of records; window <= 0 means all time.
func (s *Service) Stats(ctx context.Context, window time.Duration) (*Stats, error) {
	var since time.Time
	if window > 0 {
		since = s.now().Add(-window)
	}
	return s.repo.Stats(ctx, since)
}

// Cleanup deletes records older than retentionDays.
func (s *Service) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old usage records: %w", err)
	}
	log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("🧹 usage retention cleanup")
	return n, nil
}
