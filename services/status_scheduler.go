package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StatusScheduler периодически вызывает TournamentService.AutoUpdateStatuses.
type StatusScheduler struct {
	scheduler   gocron.Scheduler
	tournaments TournamentService
	interval    time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewStatusScheduler(tournaments TournamentService, interval time.Duration, logger *slog.Logger) (*StatusScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("status scheduler interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &StatusScheduler{
		scheduler:   sched,
		tournaments: tournaments,
		interval:    interval,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Start регистрирует задачу и запускает планировщик. После отмены ctx задача
// ничего не делает, сам планировщик останавливает Shutdown.
func (s *StatusScheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.RunOnce(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to register status job: %w", err)
	}
	s.scheduler.Start()
	s.logger.Info("Tournament status scheduler started", slog.Duration("interval", s.interval))
	return nil
}

func (s *StatusScheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.tournaments.AutoUpdateStatuses(ctx, s.now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Scheduled status update failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Scheduled status update finished", slog.Int("updated", n))
	}
}

func (s *StatusScheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
