package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/jitter"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RetryPolicy — повтор всего запуска при сбое транспорта.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Max         time.Duration
}

// Scheduler запускает синхронизацию каталога и выгрузку в таблицу по cron-расписанию.
// Заголовок таблицы по расписанию никогда не сбрасывается.
type Scheduler struct {
	cron     *cron.Cron
	syncUC   usecase.SyncUC
	mirrorUC usecase.MirrorUC
	logger   logger.Logger
	retry    RetryPolicy

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(syncUC usecase.SyncUC, mirrorUC usecase.MirrorUC, logger logger.Logger, cfg *cfg.SyncCfg) (*Scheduler, error) {
	const op = "NewScheduler"

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		syncUC:   syncUC,
		mirrorUC: mirrorUC,
		logger:   logger,
		retry: RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Base:        cfg.RetryBase,
			Max:         cfg.RetryMax,
		},
	}

	if cfg.Schedule != "" {
		if _, err := s.cron.AddFunc(cfg.Schedule, s.runSync); err != nil {
			return nil, e.Wrap(op, e.Wrap(fmt.Sprintf("SYNC_SCHEDULE %q: %v", cfg.Schedule, err), e.ErrIncorrectEnvVariable))
		}
	}

	if cfg.MirrorSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.MirrorSchedule, s.runMirror); err != nil {
			return nil, e.Wrap(op, e.Wrap(fmt.Sprintf("MIRROR_SYNC_SCHEDULE %q: %v", cfg.MirrorSchedule, err), e.ErrIncorrectEnvVariable))
		}
	}

	return s, nil
}

// Jobs — число зарегистрированных заданий.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.logger.Infof("Scheduler started with %d jobs", s.Jobs())
}

// Stop отменяет текущие задания и ждёт их завершения или истечения ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return e.Wrap("Scheduler.Stop", ctx.Err())
	}
}

func (s *Scheduler) runSync() {
	ctx := s.ctx

	err := Retry(ctx, s.retry, s.logger, func(ctx context.Context) error {
		_, err := s.syncUC.SyncCatalog(ctx)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, e.ErrSyncInProgress):
		s.logger.Infof("Scheduled catalog sync skipped: another run is active")
	default:
		s.logger.Errorf(err, "Scheduled catalog sync failed")
	}
}

func (s *Scheduler) runMirror() {
	res, err := s.mirrorUC.SyncMirror(s.ctx)
	if err != nil {
		if errors.Is(err, e.ErrHeaderMismatch) {
			s.logger.Warnf("Scheduled mirror sync skipped: sheet header drift, reset headers explicitly")
			return
		}
		s.logger.Errorf(err, "Scheduled mirror sync failed")
		return
	}

	s.logger.Debugf("Scheduled mirror sync: %d created, %d updated", res.Created, res.Updated)
}

// Retry вызывает fn до policy.MaxAttempts раз. Повторяются только ошибки транспорта,
// пауза растёт экспоненциально с джиттером.
func Retry(ctx context.Context, policy RetryPolicy, logger logger.Logger, fn func(ctx context.Context) error) error {
	attempts := max(policy.MaxAttempts, 1)

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil || !errors.Is(err, e.ErrTransport) {
			return err
		}

		if attempt == attempts-1 {
			break
		}

		delay := jitter.ExponentialBackoff(policy.Base, policy.Max, attempt, jitter.DefaultJitter)
		logger.Warnf("Attempt %d/%d failed: %v, retrying in %s", attempt+1, attempts, err, delay)

		if sleepErr := jitter.Sleep(ctx, delay); sleepErr != nil {
			return e.Wrap("Retry", errors.Join(err, sleepErr))
		}
	}

	return err
}

// cronLogger передаёт сообщения cron в общий логгер.
type cronLogger struct {
	logger logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debugf("cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Errorf(err, "cron: %s %v", msg, keysAndValues)
}
