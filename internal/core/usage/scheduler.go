package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the retention cleanup on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	jobsMux sync.RWMutex
}

// NewScheduler creates a new scheduler. Expressions use the standard
// five-field format ("0 3 * * *" is daily at 03:00).
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log.Info().Msg("⏰ Starting usage scheduler...")
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("⏰ Stopping usage scheduler...")
	<-s.cron.Stop().Done()
}

// Add registers job under name, replacing any previous job with that name
func (s *Scheduler) Add(name, schedule string, job func()) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.jobs[name] = entryID
	log.Info().Str("job", name).Str("schedule", schedule).Msg("✅ Scheduled job")
	return nil
}

// Jobs returns the registered job names
func (s *Scheduler) Jobs() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// ScheduleRetention registers the daily cleanup of records older than retentionDays.
func (s *Scheduler) ScheduleRetention(svc *Service, schedule string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	return s.Add("usage-retention", schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := svc.Cleanup(ctx, retentionDays); err != nil {
			log.Error().Err(err).Msg("❌ usage retention cleanup failed")
		}
	})
}
