package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"microblog/internal/auth"
)

const (
	HourlyPruneSpec       = "0 * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	pruneTimeout          = time.Minute
)

// Scheduler runs the only periodic job in the system: dropping
// expired session rows. Nothing request-facing depends on it.
type Scheduler struct {
	ctx  context.Context
	cron *cron.Cron
	auth *auth.Service
	log  *slog.Logger
}

func New(ctx context.Context, auth *auth.Service, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:  ctx,
		cron: c,
		auth: auth,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(HourlyPruneSpec, s.pruneSessions); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) pruneSessions() {
	ctx, cancel := context.WithTimeout(s.ctx, pruneTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	if err := s.auth.PruneExpired(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to prune expired sessions",
			"error", err)
	}
}
