package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/config"
)

// Prefetcher reloads the showtimes of a location into the record cache
type Prefetcher interface {
	Prefetch(ctx context.Context, location string) error
}

// Pinger checks that the ticket backend answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler runs the periodic jobs of the HTTP server
type Scheduler struct {
	cron           *cron.Cron
	prefetcher     Prefetcher
	pinger         Pinger
	location       func() string
	refreshSpec    string
	healthSpec     string
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// NewScheduler creates a new scheduler. location returns the cinema
// currently selected by the session.
func NewScheduler(cfg *config.Config, prefetcher Prefetcher, pinger Pinger, location func() string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		prefetcher:     prefetcher,
		pinger:         pinger,
		location:       location,
		refreshSpec:    cfg.RefreshSchedule,
		healthSpec:     cfg.HealthSchedule,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the jobs and starts the scheduler. An empty schedule
// disables its job.
func (s *Scheduler) Start() error {
	s.logger.Info().Msg("Starting scheduler")

	if s.refreshSpec != "" {
		if _, err := s.cron.AddFunc(s.refreshSpec, s.runRefresh); err != nil {
			return fmt.Errorf("failed to add refresh job: %w", err)
		}
	}

	if s.healthSpec != "" {
		if _, err := s.cron.AddFunc(s.healthSpec, s.runHealthCheck); err != nil {
			return fmt.Errorf("failed to add health check job: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info().
		Str("refresh", s.refreshSpec).
		Str("health", s.healthSpec).
		Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runRefresh reloads the showtimes of the selected cinema
func (s *Scheduler) runRefresh() {
	location := s.location()

	ctx, cancel := s.jobContext()
	defer cancel()

	if err := s.prefetcher.Prefetch(ctx, location); err != nil {
		s.logger.Warn().Err(err).Str("location", location).Msg("Scheduled refresh failed")
		return
	}
	s.logger.Debug().Str("location", location).Msg("Scheduled refresh completed")
}

func (s *Scheduler) runHealthCheck() {
	ctx, cancel := s.jobContext()
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Ticket backend is not answering")
		return
	}
	s.logger.Debug().Msg("Ticket backend is healthy")
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.requestTimeout)
}
