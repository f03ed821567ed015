package minio

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/jitter"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

const (
	feedContentType     = "application/json"
	feedTimestampLayout = "20060102T150405Z"
	cleanupAttempts     = 3
)

// FeedPublisher публикует фид согласованных товаров в MinIO: снимок с меткой времени
// и копию под постоянным ключом approved-latest.json.
type FeedPublisher struct {
	objectRepo  usecase.ObjectRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	backoffBase time.Duration
}

func NewFeedPublisher(objectRepo usecase.ObjectRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *FeedPublisher {
	return &FeedPublisher{
		objectRepo:  objectRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoffBase: time.Second,
	}
}

type feedModel struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Count       int             `json:"count"`
	Items       []feedItemModel `json:"items"`
}

type feedItemModel struct {
	ExternalID   string            `json:"id"`
	Code         string            `json:"codice"`
	Description  string            `json:"descrizione"`
	Price        string            `json:"prezzo"`
	Quantity     string            `json:"quantita"`
	Category1    string            `json:"categoria"`
	Category2    string            `json:"sottocategoria"`
	Tags         string            `json:"tags"`
	ApprovedAt   string            `json:"approvato_il"`
	Translations map[string]string `json:"traduzioni,omitempty"`
}

// PublishApproved загружает снимок, затем latest. Если latest не записался,
// снимок удаляется в фоне, чтобы не оставлять фид без указателя.
func (f *FeedPublisher) PublishApproved(ctx context.Context, feed *usecase.ApprovedFeed) (*usecase.FeedResult, error) {
	const op = "FeedPublisher.PublishApproved"

	data, err := json.MarshalIndent(toFeedModel(feed), "", "  ")
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	snapshotKey := fmt.Sprintf("%sapproved-%s.json", f.cfg.FeedPrefix, feed.GeneratedAt.UTC().Format(feedTimestampLayout))
	latestKey := f.cfg.FeedPrefix + "approved-latest.json"

	key, err := f.objectRepo.Upload(ctx, &domain.FeedObject{
		Bucket:      f.cfg.BucketName,
		Key:         snapshotKey,
		Data:        data,
		ContentType: feedContentType,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	latest, err := f.objectRepo.Upload(ctx, &domain.FeedObject{
		Bucket:      f.cfg.BucketName,
		Key:         latestKey,
		Data:        data,
		ContentType: feedContentType,
	})
	if err != nil {
		f.logger.Warnf("latest feed upload failed, removing snapshot %s", key)
		f.CleanupObjects([]string{key})
		return nil, e.Wrap(op, err)
	}

	f.logger.Infof("approved feed published: %s (%d items)", key, len(feed.Items))
	return &usecase.FeedResult{Key: key, LatestKey: latest, Items: len(feed.Items)}, nil
}

// CleanupObjects запускает фоновое удаление указанных ключей.
func (f *FeedPublisher) CleanupObjects(keys []string) {
	if len(keys) == 0 {
		return
	}
	f.wg.Add(1)
	go f.cleanupKeys(keys)
}

// cleanupKeys удаляет объекты с экспоненциальной задержкой и джиттером.
func (f *FeedPublisher) cleanupKeys(keys []string) {
	defer f.wg.Done()

	ctx, cancel := context.WithTimeout(f.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := f.objectRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				f.logger.Errorf(err, "feed cleanup gave up, key=%s", key)
				break
			}

			if err := jitter.Sleep(ctx, jitter.ExponentialBackoff(f.backoffBase, 10*f.backoffBase, attempt, jitter.DefaultJitter)); err != nil {
				f.logger.Warnf("feed cleanup interrupted by shutdown, key=%s", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает фоновые удаления с учётом таймаута завершения приложения.
func (f *FeedPublisher) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("feed cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func toFeedModel(feed *usecase.ApprovedFeed) feedModel {
	items := make([]feedItemModel, 0, len(feed.Items))
	for _, rec := range feed.Items {
		items = append(items, feedItemModel{
			ExternalID:   rec.ExternalID,
			Code:         rec.Code,
			Description:  rec.Description,
			Price:        rec.Price,
			Quantity:     rec.Quantity,
			Category1:    rec.Category1,
			Category2:    rec.Category2,
			Tags:         rec.Tags,
			ApprovedAt:   rec.ApprovedAt,
			Translations: rec.Translations,
		})
	}

	return feedModel{
		GeneratedAt: feed.GeneratedAt.UTC(),
		Count:       len(items),
		Items:       items,
	}
}
