package challenge

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Expirer expires stale challenges
type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Sweeper periodically expires challenges nobody answered
type Sweeper struct {
	expirer   Expirer
	scheduler gocron.Scheduler
	timeout   time.Duration
	logger    *slog.Logger
}

// NewSweeper schedules an expiry sweep every interval. Call Start to run it.
func NewSweeper(expirer Expirer, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Sweeper{
		expirer:   expirer,
		scheduler: sched,
		timeout:   interval,
		logger:    logger,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.Sweep),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("expire-challenges"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	return s, nil
}

// Start begins running sweeps in the background
func (s *Sweeper) Start() {
	s.scheduler.Start()
	s.logger.Info("challenge sweeper started")
}

// Shutdown stops the scheduler, waiting for a running sweep to finish
func (s *Sweeper) Shutdown() error {
	return s.scheduler.Shutdown()
}

// Sweep runs one expiry pass
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("challenge sweep failed",
			slog.Int("expired", n),
			slog.String("error", err.Error()),
		)
		return
	}
	if n > 0 {
		s.logger.Info("challenge sweep finished", slog.Int("expired", n))
	}
}
