package pgdb

import (
	"context"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/tr"
	"github.com/jimlawless/whereami"
)

// SyncRunRepo хранит историю запусков синхронизации и список отказов по товарам.
type SyncRunRepo struct {
	db   tr.Querier
	conv converter.SyncRunConverter
}

func NewSyncRunRepo(db tr.Querier, conv converter.SyncRunConverter) *SyncRunRepo {
	return &SyncRunRepo{
		db:   db,
		conv: conv,
	}
}

// Start регистрирует начало запуска.
func (s *SyncRunRepo) Start(ctx context.Context, run *domain.SyncRun) error {
	q := tr.QuerierFromCtx(ctx, s.db)
	model := s.conv.ToModel(run)

	query := `
		INSERT INTO sync_runs (id, status, started_at)
		VALUES ($1, $2, $3)
	`

	if _, err := q.Exec(ctx, query, model.ID, model.Status, model.StartedAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Finish сохраняет итог запуска и отказы. Вызывается внутри транзакции,
// чтобы итог и список отказов записались вместе.
func (s *SyncRunRepo) Finish(ctx context.Context, run *domain.SyncRun) error {
	q := tr.QuerierFromCtx(ctx, s.db)
	model := s.conv.ToModel(run)

	query := `
		UPDATE sync_runs
		SET status = $2, pages = $3, processed = $4, failed = $5, error = $6, finished_at = $7
		WHERE id = $1
	`

	if _, err := q.Exec(ctx, query,
		model.ID,
		model.Status,
		model.Pages,
		model.Processed,
		model.Failed,
		model.Error,
		model.FinishedAt,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(run.Failures) == 0 {
		return nil
	}

	failures := s.conv.ToFailuresModel(run.Failures)
	insertFailures := `
		INSERT INTO sync_run_failures (run_id, external_id, code, page, reason)
		SELECT $1, f.external_id, f.code, f.page, f.reason
		FROM unnest($2::text[], $3::text[], $4::int[], $5::text[]) AS f(external_id, code, page, reason)
	`

	if _, err := q.Exec(ctx, insertFailures,
		model.ID,
		failures.ExternalIDs,
		failures.Codes,
		failures.Pages,
		failures.Reasons,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
