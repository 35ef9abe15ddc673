package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = 30 * time.Second

// Refresher перечитывает снимок каталога из хранилища
type Refresher interface {
	Refresh(ctx context.Context)
}

// Scheduler периодически обновляет снимок каталога, чтобы правки из
// других процессов становились видны без перезапуска API.
type Scheduler struct {
	catalog  Refresher
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// New creates a scheduler. schedule accepts standard cron expressions and
// descriptors such as "@every 5m"; an empty schedule disables the job.
func New(catalog Refresher, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		catalog:  catalog,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("Catalog refresh schedule is empty, scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() { s.refresh(ctx) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.schedule, err)
	}

	s.logger.Info("Starting scheduler", zap.String("catalog_refresh", s.schedule))
	s.cron.Start()
	return nil
}

// Stop ждёт завершения выполняющегося обновления
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	s.catalog.Refresh(ctx)
	s.logger.Debug("Catalog refreshed", zap.Duration("took", time.Since(start)))
}
