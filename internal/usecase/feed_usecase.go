package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

// FeedUseCase публикует фид согласованных товаров.
type FeedUseCase struct {
	mirror    SheetMirror
	publisher FeedPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewFeedUC(mirror SheetMirror, publisher FeedPublisher, logger logger.Logger) *FeedUseCase {
	return &FeedUseCase{
		mirror:    mirror,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (f *FeedUseCase) PublishApproved(ctx context.Context) (*FeedResult, error) {
	const op = "FeedUseCase.PublishApproved"

	records, err := f.mirror.ReadAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	approved := make([]domain.ApprovalRecord, 0, len(records))
	for _, r := range records {
		if r.Approved {
			approved = append(approved, r)
		}
	}
	if len(approved) == 0 {
		return nil, e.Wrap(op, e.ErrNoApprovedItems)
	}

	res, err := f.publisher.PublishApproved(ctx, &ApprovedFeed{GeneratedAt: f.now().UTC(), Items: approved})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	f.logger.Infof("Approved feed published: %s (%d items)", res.Key, res.Items)

	return res, nil
}
