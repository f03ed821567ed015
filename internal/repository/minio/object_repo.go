package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ObjectRepo реализует репозиторий файлов выгрузки поверх MinIO.
type ObjectRepo struct {
	mc     *minio.Client
	bucket string
}

func NewObjectRepo(mc *minio.Client, bucket string) *ObjectRepo {
	return &ObjectRepo{
		mc:     mc,
		bucket: bucket,
	}
}

// Upload загружает объект в MinIO и возвращает его ключ.
func (o *ObjectRepo) Upload(ctx context.Context, object *domain.FeedObject) (string, error) {
	bucket := object.Bucket
	if bucket == "" {
		bucket = o.bucket
	}

	info, err := o.mc.PutObject(ctx, bucket, object.Key, bytes.NewReader(object.Data), int64(len(object.Data)), minio.PutObjectOptions{
		ContentType: object.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по ключу.
func (o *ObjectRepo) Delete(ctx context.Context, key string) error {
	if err := o.mc.RemoveObject(ctx, o.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
