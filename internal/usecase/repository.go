package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

type CatalogRepository interface {
	Upsert(ctx context.Context, item *domain.CatalogItem) error
	ListAll(ctx context.Context) ([]domain.CatalogItem, error)
}

type SyncRunRepository interface {
	Start(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, run *domain.SyncRun) error
}

// SheetMirror — таблица согласования. Строки адресуются бизнес-ключом (code).
type SheetMirror interface {
	ReconcileHeaders(ctx context.Context) (HeaderAction, error)
	HeadersMatch(ctx context.Context) (bool, error)
	FindByCode(ctx context.Context, code string) (int, bool, error)
	MarkApproved(ctx context.Context, code string) (bool, error)
	UpsertByCode(ctx context.Context, record *domain.ApprovalRecord) (UpsertAction, error)
	UpsertMany(ctx context.Context, records []domain.ApprovalRecord) (*MirrorSyncResult, error)
	ReadAll(ctx context.Context) ([]domain.ApprovalRecord, error)
	Inconsistencies(ctx context.Context) ([]domain.ApprovalInconsistency, error)
}

// SyncLock — межпроцессная блокировка запуска синхронизации.
type SyncLock interface {
	Acquire(ctx context.Context) (string, error)
	Release(ctx context.Context, token string) error
}

type ReportCache interface {
	SaveLastReport(ctx context.Context, report *SyncReport) error
	LastReport(ctx context.Context) (*SyncReport, error)
}

// ObjectRepository — объектное хранилище для выгружаемых файлов.
type ObjectRepository interface {
	Upload(ctx context.Context, object *domain.FeedObject) (string, error)
	Delete(ctx context.Context, key string) error
}
