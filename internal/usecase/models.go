package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
)

// SYNC USECASE

// SyncReport — итог одного запуска синхронизации каталога.
type SyncReport struct {
	RunID      string
	Status     domain.SyncRunStatus
	Count      int // только успешно сохранённые товары
	Pages      int // страницы с данными, пустая завершающая не считается
	Failed     []domain.ItemFailure
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

func NewSyncReport(run *domain.SyncRun) *SyncReport {
	report := &SyncReport{
		RunID:     run.ID,
		Status:    run.Status,
		Count:     run.Processed,
		Pages:     run.Pages,
		Failed:    run.Failures,
		Error:     run.Error,
		StartedAt: run.StartedAt,
	}
	if run.FinishedAt != nil {
		report.FinishedAt = *run.FinishedAt
	}

	return report
}

// APPROVAL USECASE

// ApprovalFilter — фильтр списка товаров таблицы согласования.
type ApprovalFilter string

const (
	ApprovalFilterAll        ApprovalFilter = "all"
	ApprovalFilterUnapproved ApprovalFilter = "unapproved"
)

// ParseApprovalFilter разбирает значение фильтра, пустая строка означает unapproved.
func ParseApprovalFilter(s string) (ApprovalFilter, error) {
	switch ApprovalFilter(s) {
	case "", ApprovalFilterUnapproved:
		return ApprovalFilterUnapproved, nil
	case ApprovalFilterAll:
		return ApprovalFilterAll, nil
	default:
		return "", e.Wrap(s, e.ErrInvalidApprovalArg)
	}
}

// MIRROR USECASE

// HeaderAction — результат сверки заголовка листа.
type HeaderAction string

const (
	HeaderCreated   HeaderAction = "created"
	HeaderUnchanged HeaderAction = "unchanged"
)

// UpsertAction — что произошло со строкой при слиянии.
type UpsertAction string

const (
	UpsertCreated UpsertAction = "created"
	UpsertUpdated UpsertAction = "updated"
)

// MirrorSyncResult — итог выгрузки каталога в таблицу согласования.
type MirrorSyncResult struct {
	Created int
	Updated int
}

// FEED USECASE

// ApprovedFeed — выгрузка согласованных товаров для внешних получателей.
type ApprovedFeed struct {
	GeneratedAt time.Time
	Items       []domain.ApprovalRecord
}

// FeedResult — ключи опубликованного фида.
type FeedResult struct {
	Key       string
	LatestKey string
	Items     int
}

// INFRASTRUCTURE

// ItemApprovedEvent — событие согласования товара.
type ItemApprovedEvent struct {
	Code       string
	ApprovedAt time.Time
}
