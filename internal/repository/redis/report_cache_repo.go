package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/clients"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const lastReportKey = "catalog:sync:last_report"

// ReportCacheRepo хранит последний отчёт синхронизации.
type ReportCacheRepo struct {
	client *clients.RedisClient
	conv   converter.SyncReportConverter
	cfg    *cfg.RedisCfg
}

func NewReportCacheRepo(client *clients.RedisClient, conv converter.SyncReportConverter, cfg *cfg.RedisCfg) *ReportCacheRepo {
	return &ReportCacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
	}
}

// SaveLastReport перезаписывает последний отчёт с TTL из конфигурации.
func (c *ReportCacheRepo) SaveLastReport(ctx context.Context, report *usecase.SyncReport) error {
	data, err := json.Marshal(c.conv.ToRedisModel(report))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, lastReportKey, data, c.cfg.ReportTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// LastReport возвращает последний отчёт или e.ErrNoSyncReport.
func (c *ReportCacheRepo) LastReport(ctx context.Context) (*usecase.SyncReport, error) {
	data, err := c.client.Client.Get(ctx, lastReportKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrNoSyncReport
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.SyncReportRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToUseCase(&model), nil
}
