package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
)

//go:generate mockgen -source=infrastructure.go -destination=mocks/infrastructure_mock.go -package=mocks

type CatalogFetcher interface {
	FetchPage(ctx context.Context, page int) ([]domain.RawRecord, error)
}

type RecordNormalizer interface {
	Normalize(raw domain.RawRecord) (*domain.CatalogItem, error)
}

type EventPublisher interface {
	PublishSyncFinished(ctx context.Context, report *SyncReport) error
	PublishItemApproved(ctx context.Context, event *ItemApprovedEvent) error
}

// FeedPublisher доставляет фид согласованных товаров получателям.
type FeedPublisher interface {
	PublishApproved(ctx context.Context, feed *ApprovedFeed) (*FeedResult, error)
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
