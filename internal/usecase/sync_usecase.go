package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/google/uuid"
)

// SyncConfig — параметры обхода страниц каталога.
type SyncConfig struct {
	FirstPage    int
	MaxPages     int // 0 — до первой пустой страницы
	FetchTimeout time.Duration
	StoreTimeout time.Duration
}

// SyncUseCase переносит каталог из удалённого сервиса в базу. Таблицу согласования не трогает.
type SyncUseCase struct {
	fetcher     CatalogFetcher
	normalizer  RecordNormalizer
	catalogRepo CatalogRepository
	runRepo     SyncRunRepository
	txManager   TxManager
	lock        SyncLock
	reportCache ReportCache
	events      EventPublisher
	logger      logger.Logger
	cfg         SyncConfig
	now         func() time.Time
}

func NewSyncUC(
	fetcher CatalogFetcher,
	normalizer RecordNormalizer,
	catalogRepo CatalogRepository,
	runRepo SyncRunRepository,
	txManager TxManager,
	lock SyncLock,
	reportCache ReportCache,
	events EventPublisher,
	logger logger.Logger,
	cfg SyncConfig,
) *SyncUseCase {
	return &SyncUseCase{
		fetcher:     fetcher,
		normalizer:  normalizer,
		catalogRepo: catalogRepo,
		runRepo:     runRepo,
		txManager:   txManager,
		lock:        lock,
		reportCache: reportCache,
		events:      events,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SyncCatalog выполняет один запуск синхронизации. Страницы запрашиваются строго по очереди,
// ошибка отдельного товара попадает в отчёт, ошибка загрузки страницы завершает запуск.
// При ошибке запуска возвращается и отчёт, и ошибка: отчёт уже сохранён со статусом failed.
func (s *SyncUseCase) SyncCatalog(ctx context.Context) (*SyncReport, error) {
	const op = "SyncUseCase.SyncCatalog"

	token, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), token); err != nil {
			s.logger.Warnf("Failed to release sync lock: %v", e.Wrap(op, err))
		}
	}()

	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Status:    domain.SyncRunRunning,
		StartedAt: s.now(),
	}
	if err := s.runRepo.Start(ctx, run); err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("Catalog sync %s started from page %d", run.ID, s.cfg.FirstPage)

	runErr := s.runPages(ctx, run)

	finishedAt := s.now()
	run.FinishedAt = &finishedAt
	run.Status = domain.SyncRunSucceeded
	if runErr != nil {
		run.Status = domain.SyncRunFailed
		run.Error = runErr.Error()
	}

	// Итог сохраняется и после отмены запроса
	finishCtx := context.WithoutCancel(ctx)
	if err := s.txManager.WithinTx(finishCtx, func(ctx context.Context) error {
		return s.runRepo.Finish(ctx, run)
	}); err != nil {
		s.logger.Errorf(e.Wrap(op, err), "Failed to persist sync run %s", run.ID)
	}

	report := NewSyncReport(run)

	if err := s.reportCache.SaveLastReport(finishCtx, report); err != nil {
		s.logger.Warnf("Failed to cache sync report: %v", e.Wrap(op, err))
	}

	if err := s.events.PublishSyncFinished(finishCtx, report); err != nil {
		s.logger.Warnf("Failed to publish sync finished event: %v", e.Wrap(op, err))
	}

	if runErr != nil {
		s.logger.Errorf(runErr, "Catalog sync %s failed after %d pages, %d items stored", run.ID, run.Pages, run.Processed)
		return report, e.Wrap(op, runErr)
	}

	s.logger.Infof(
		"Catalog sync %s finished: %d items stored, %d failed, %d pages",
		run.ID, run.Processed, len(run.Failures), run.Pages,
	)

	return report, nil
}

// LastReport возвращает отчёт последнего завершённого запуска.
func (s *SyncUseCase) LastReport(ctx context.Context) (*SyncReport, error) {
	const op = "SyncUseCase.LastReport"

	report, err := s.reportCache.LastReport(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return report, nil
}

func (s *SyncUseCase) runPages(ctx context.Context, run *domain.SyncRun) error {
	// code -> external id, коды должны быть уникальны в пределах запуска
	seen := make(map[string]string)

	for page := s.cfg.FirstPage; ; page++ {
		if s.cfg.MaxPages > 0 && page-s.cfg.FirstPage >= s.cfg.MaxPages {
			s.logger.Warnf("Catalog sync %s stopped at page limit %d", run.ID, s.cfg.MaxPages)
			return nil
		}

		if ctx.Err() != nil {
			return e.Wrap(fmt.Sprintf("before page %d", page), e.ErrSyncCancelled)
		}

		records, err := s.fetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return e.Wrap(fmt.Sprintf("page %d", page), e.ErrSyncCancelled)
			}
			return e.Wrap(fmt.Sprintf("page %d", page), err)
		}

		if len(records) == 0 {
			s.logger.Debugf("Catalog sync %s: page %d is empty, stopping", run.ID, page)
			return nil
		}

		run.Pages++
		s.logger.Debugf("Catalog sync %s: page %d has %d records", run.ID, page, len(records))

		for _, raw := range records {
			if ctx.Err() != nil {
				return e.Wrap(fmt.Sprintf("page %d", page), e.ErrSyncCancelled)
			}
			s.storeRecord(ctx, run, page, raw, seen)
		}
	}
}

func (s *SyncUseCase) fetchPage(ctx context.Context, page int) ([]domain.RawRecord, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	return s.fetcher.FetchPage(ctx, page)
}

// storeRecord нормализует и сохраняет одну запись. Ошибка записывается в run.Failures.
func (s *SyncUseCase) storeRecord(ctx context.Context, run *domain.SyncRun, page int, raw domain.RawRecord, seen map[string]string) {
	fail := func(err error) {
		s.logger.Warnf("Catalog sync %s: skipping record id=%q code=%q on page %d: %v", run.ID, raw.ID, raw.Code, page, err)
		run.Failures = append(run.Failures, domain.ItemFailure{
			ExternalID: raw.ID.String(),
			Code:       raw.Code.String(),
			Page:       page,
			Reason:     err.Error(),
		})
	}

	item, err := s.normalizer.Normalize(raw)
	if err != nil {
		fail(err)
		return
	}

	if owner, ok := seen[item.Code]; ok && owner != item.ExternalID {
		fail(e.Wrap(fmt.Sprintf("code %s is used by external id %s", item.Code, owner), e.ErrDuplicateCode))
		return
	}

	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	if err := s.txManager.WithinTx(storeCtx, func(ctx context.Context) error {
		return s.catalogRepo.Upsert(ctx, item)
	}); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = e.Wrap(fmt.Sprintf("store timeout %s", s.cfg.StoreTimeout), err)
		}
		fail(err)
		return
	}

	seen[item.Code] = item.ExternalID
	run.Processed++
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
