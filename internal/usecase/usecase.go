package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
)

//go:generate mockgen -source=usecase.go -destination=mocks/usecase_mock.go -package=mocks

type SyncUC interface {
	SyncCatalog(ctx context.Context) (*SyncReport, error)
	LastReport(ctx context.Context) (*SyncReport, error)
}

type ApprovalUC interface {
	Approve(ctx context.Context, code string) (bool, error)
	ListItems(ctx context.Context, filter ApprovalFilter) ([]domain.ApprovalRecord, error)
	Inconsistencies(ctx context.Context) ([]domain.ApprovalInconsistency, error)
}

type MirrorUC interface {
	SyncMirror(ctx context.Context) (*MirrorSyncResult, error)
	ResetHeaders(ctx context.Context, confirm bool) (HeaderAction, error)
	EnsureHeaders(ctx context.Context, resetOnDrift bool) (HeaderAction, error)
}

type FeedUC interface {
	PublishApproved(ctx context.Context) (*FeedResult, error)
}
