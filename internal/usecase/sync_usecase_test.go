package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/transformer"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/internal/usecase/mocks"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type syncDeps struct {
	fetcher     *mocks.MockCatalogFetcher
	catalogRepo *mocks.MockCatalogRepository
	runRepo     *mocks.MockSyncRunRepository
	txManager   *mocks.MockTxManager
	lock        *mocks.MockSyncLock
	reportCache *mocks.MockReportCache
	events      *mocks.MockEventPublisher
}

func newSyncUC(t *testing.T, cfg usecase.SyncConfig) (*usecase.SyncUseCase, *syncDeps) {
	ctrl := gomock.NewController(t)

	d := &syncDeps{
		fetcher:     mocks.NewMockCatalogFetcher(ctrl),
		catalogRepo: mocks.NewMockCatalogRepository(ctrl),
		runRepo:     mocks.NewMockSyncRunRepository(ctrl),
		txManager:   mocks.NewMockTxManager(ctrl),
		lock:        mocks.NewMockSyncLock(ctrl),
		reportCache: mocks.NewMockReportCache(ctrl),
		events:      mocks.NewMockEventPublisher(ctrl),
	}

	d.txManager.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()

	norm := transformer.New(transformer.Config{
		Languages:       []string{"IT", "FR", "ES", "DE"},
		DefaultLanguage: "IT",
		PriceKeyword:    "negozio",
		DefaultTaxRate:  22,
	})

	uc := usecase.NewSyncUC(
		d.fetcher, norm, d.catalogRepo, d.runRepo, d.txManager,
		d.lock, d.reportCache, d.events, logger.NewDiscardLogger(), cfg,
	)

	return uc, d
}

// expectRunLifecycle ожидает блокировку, старт, финиш и публикацию отчёта.
func (d *syncDeps) expectRunLifecycle(finished *domain.SyncRun) {
	d.lock.EXPECT().Acquire(gomock.Any()).Return("token-1", nil)
	d.lock.EXPECT().Release(gomock.Any(), "token-1").Return(nil)
	d.runRepo.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
	d.runRepo.EXPECT().Finish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *domain.SyncRun) error {
			*finished = *run
			return nil
		})
	d.reportCache.EXPECT().SaveLastReport(gomock.Any(), gomock.Any()).Return(nil)
	d.events.EXPECT().PublishSyncFinished(gomock.Any(), gomock.Any()).Return(nil)
}

func makePage(from, n int) []domain.RawRecord {
	page := make([]domain.RawRecord, 0, n)
	for i := from; i < from+n; i++ {
		page = append(page, domain.RawRecord{
			ID:   domain.FlexString(fmt.Sprintf("%d", i)),
			Code: domain.FlexString(fmt.Sprintf("C-%d", i)),
		})
	}
	return page
}

func TestSyncUseCase_SyncCatalog_Pagination(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 1})

	var finished domain.SyncRun
	d.expectRunLifecycle(&finished)

	gomock.InOrder(
		d.fetcher.EXPECT().FetchPage(gomock.Any(), 1).Return(makePage(0, 50), nil),
		d.fetcher.EXPECT().FetchPage(gomock.Any(), 2).Return(makePage(50, 50), nil),
		d.fetcher.EXPECT().FetchPage(gomock.Any(), 3).Return(nil, nil),
	)
	d.catalogRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(100)

	report, err := uc.SyncCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, report.Count)
	assert.Equal(t, 2, report.Pages)
	assert.Empty(t, report.Failed)
	assert.Equal(t, domain.SyncRunSucceeded, report.Status)
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, domain.SyncRunSucceeded, finished.Status)
	assert.Equal(t, 100, finished.Processed)
	require.NotNil(t, finished.FinishedAt)
}

func TestSyncUseCase_SyncCatalog_ItemFailuresContinue(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 1})

	var finished domain.SyncRun
	d.expectRunLifecycle(&finished)

	page := []domain.RawRecord{
		{ID: "1", Code: "A"},
		{ID: "2"},            // без кода
		{ID: "3", Code: "A"}, // код уже занят id=1
		{ID: "4", Code: "B"}, // ошибка базы
		{ID: "5", Code: "C"},
	}
	d.fetcher.EXPECT().FetchPage(gomock.Any(), 1).Return(page, nil)
	d.fetcher.EXPECT().FetchPage(gomock.Any(), 2).Return([]domain.RawRecord{}, nil)

	d.catalogRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *domain.CatalogItem) error {
			if item.Code == "B" {
				return errors.New("deadlock detected")
			}
			return nil
		}).
		Times(3)

	report, err := uc.SyncCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count)
	require.Len(t, report.Failed, 3)
	assert.Equal(t, "2", report.Failed[0].ExternalID)
	assert.Contains(t, report.Failed[0].Reason, e.ErrMissingCode.Error())
	assert.Equal(t, "3", report.Failed[1].ExternalID)
	assert.Contains(t, report.Failed[1].Reason, e.ErrDuplicateCode.Error())
	assert.Equal(t, "B", report.Failed[2].Code)
	assert.Equal(t, 1, report.Failed[2].Page)
	assert.Len(t, finished.Failures, 3)
}

func TestSyncUseCase_SyncCatalog_UndecodedRecordDoesNotStopPaging(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 1})

	var finished domain.SyncRun
	d.expectRunLifecycle(&finished)

	first := []domain.RawRecord{
		{ID: "1", Code: "A1"},
		{ID: "2", Code: "B2", DecodeErr: fmt.Errorf("%w: item 1: bad quantita", e.ErrMalformedRecord)},
		{ID: "3", Code: "C3", StockQuantity: domain.IntOf(5)},
	}
	gomock.InOrder(
		d.fetcher.EXPECT().FetchPage(gomock.Any(), 1).Return(first, nil),
		d.fetcher.EXPECT().FetchPage(gomock.Any(), 2).Return(makePage(10, 2), nil),
		d.fetcher.EXPECT().FetchPage(gomock.Any(), 3).Return(nil, nil),
	)
	d.catalogRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(4)

	report, err := uc.SyncCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Count)
	assert.Equal(t, 2, report.Pages)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "2", report.Failed[0].ExternalID)
	assert.Equal(t, "B2", report.Failed[0].Code)
	assert.Equal(t, 1, report.Failed[0].Page)
	assert.Contains(t, report.Failed[0].Reason, e.ErrMalformedRecord.Error())
	assert.Equal(t, domain.SyncRunSucceeded, finished.Status)
}

func TestSyncUseCase_SyncCatalog_FetchFailureIsFatal(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 1})

	var finished domain.SyncRun
	d.expectRunLifecycle(&finished)

	d.fetcher.EXPECT().FetchPage(gomock.Any(), 1).Return(makePage(0, 2), nil)
	d.fetcher.EXPECT().FetchPage(gomock.Any(), 2).Return(nil, e.Wrap("status 503", e.ErrTransport))
	d.catalogRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	report, err := uc.SyncCatalog(context.Background())
	require.ErrorIs(t, err, e.ErrTransport)
	require.NotNil(t, report)

	assert.Equal(t, domain.SyncRunFailed, report.Status)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, 1, report.Pages)
	assert.Contains(t, report.Error, "page 2")
	assert.Equal(t, domain.SyncRunFailed, finished.Status)
}

func TestSyncUseCase_SyncCatalog_Cancelled(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 1})

	var finished domain.SyncRun
	d.expectRunLifecycle(&finished)

	ctx, cancel := context.WithCancel(context.Background())

	d.fetcher.EXPECT().FetchPage(gomock.Any(), 1).
		DoAndReturn(func(context.Context, int) ([]domain.RawRecord, error) {
			return makePage(0, 1), nil
		})
	d.catalogRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.CatalogItem) error {
			cancel()
			return nil
		})

	report, err := uc.SyncCatalog(ctx)
	require.ErrorIs(t, err, e.ErrSyncCancelled)
	assert.Equal(t, domain.SyncRunFailed, report.Status)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, domain.SyncRunFailed, finished.Status)
}

func TestSyncUseCase_SyncCatalog_MaxPages(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 0, MaxPages: 2})

	var finished domain.SyncRun
	d.expectRunLifecycle(&finished)

	d.fetcher.EXPECT().FetchPage(gomock.Any(), 0).Return(makePage(0, 1), nil)
	d.fetcher.EXPECT().FetchPage(gomock.Any(), 1).Return(makePage(1, 1), nil)
	d.catalogRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	report, err := uc.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 2, report.Count)
}

func TestSyncUseCase_SyncCatalog_LockBusy(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{FirstPage: 1})

	d.lock.EXPECT().Acquire(gomock.Any()).Return("", e.ErrSyncInProgress)

	report, err := uc.SyncCatalog(context.Background())
	assert.ErrorIs(t, err, e.ErrSyncInProgress)
	assert.Nil(t, report)
}

func TestSyncUseCase_LastReport(t *testing.T) {
	uc, d := newSyncUC(t, usecase.SyncConfig{})

	d.reportCache.EXPECT().LastReport(gomock.Any()).Return(nil, e.ErrNoSyncReport)

	_, err := uc.LastReport(context.Background())
	assert.ErrorIs(t, err, e.ErrNoSyncReport)
}
