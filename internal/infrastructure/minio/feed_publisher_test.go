package minio

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectRepo struct {
	mu        sync.Mutex
	objects   map[string]*domain.FeedObject
	failKeys  map[string]error
	deleted   []string
	deleteErr error
}

func newFakeObjectRepo() *fakeObjectRepo {
	return &fakeObjectRepo{objects: map[string]*domain.FeedObject{}, failKeys: map[string]error{}}
}

func (f *fakeObjectRepo) Upload(_ context.Context, obj *domain.FeedObject) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failKeys[obj.Key]; err != nil {
		return "", err
	}
	f.objects[obj.Key] = obj
	return obj.Key, nil
}

func (f *fakeObjectRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func testFeed() *usecase.ApprovedFeed {
	return &usecase.ApprovedFeed{
		GeneratedAt: time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC),
		Items: []domain.ApprovalRecord{
			{ExternalID: "1", Code: "A1", Price: "9.50", Approved: true, ApprovedAt: "2024-05-17 10:00:00",
				Translations: map[string]string{"descrizione_fr": "Bonjour"}},
		},
	}
}

func TestFeedPublisher_PublishApproved(t *testing.T) {
	repo := newFakeObjectRepo()
	pub := NewFeedPublisher(repo, &cfg.MinIOCfg{BucketName: "feeds", FeedPrefix: "feeds/"}, logger.NewDiscardLogger(), context.Background())

	res, err := pub.PublishApproved(context.Background(), testFeed())
	require.NoError(t, err)
	assert.Equal(t, "feeds/approved-20240517T103000Z.json", res.Key)
	assert.Equal(t, "feeds/approved-latest.json", res.LatestKey)
	assert.Equal(t, 1, res.Items)

	require.Contains(t, repo.objects, res.Key)
	obj := repo.objects[res.Key]
	assert.Equal(t, "feeds", obj.Bucket)
	assert.Equal(t, "application/json", obj.ContentType)

	var decoded feedModel
	require.NoError(t, json.Unmarshal(obj.Data, &decoded))
	assert.Equal(t, 1, decoded.Count)
	assert.Equal(t, "A1", decoded.Items[0].Code)
	assert.Equal(t, "Bonjour", decoded.Items[0].Translations["descrizione_fr"])
	assert.Equal(t, obj.Data, repo.objects[res.LatestKey].Data)
}

func TestFeedPublisher_LatestFailureRemovesSnapshot(t *testing.T) {
	repo := newFakeObjectRepo()
	boom := errors.New("bucket is read-only")
	repo.failKeys["feeds/approved-latest.json"] = boom

	pub := NewFeedPublisher(repo, &cfg.MinIOCfg{BucketName: "feeds", FeedPrefix: "feeds/"}, logger.NewDiscardLogger(), context.Background())

	_, err := pub.PublishApproved(context.Background(), testFeed())
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pub.WaitForCleanup(ctx))

	assert.Equal(t, []string{"feeds/approved-20240517T103000Z.json"}, repo.deleted)
	assert.Empty(t, repo.objects)
}

func TestFeedPublisher_CleanupRetries(t *testing.T) {
	repo := newFakeObjectRepo()
	repo.deleteErr = errors.New("unavailable")

	pub := NewFeedPublisher(repo, &cfg.MinIOCfg{BucketName: "feeds"}, logger.NewDiscardLogger(), context.Background())
	pub.backoffBase = time.Millisecond

	pub.CleanupObjects([]string{"k"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pub.WaitForCleanup(ctx))

	assert.Len(t, repo.deleted, cleanupAttempts)
}
