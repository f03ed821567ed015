package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

// ApprovalUseCase — операции ревьюеров над таблицей согласования.
type ApprovalUseCase struct {
	mirror SheetMirror
	events EventPublisher
	logger logger.Logger
	now    func() time.Time
}

func NewApprovalUC(mirror SheetMirror, events EventPublisher, logger logger.Logger) *ApprovalUseCase {
	return &ApprovalUseCase{
		mirror: mirror,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Approve отмечает товар согласованным. Неизвестный код — false без ошибки.
func (a *ApprovalUseCase) Approve(ctx context.Context, code string) (bool, error) {
	const op = "ApprovalUseCase.Approve"

	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	ok, err := a.mirror.MarkApproved(ctx, code)
	if err != nil {
		return false, e.Wrap(op, err)
	}
	if !ok {
		a.logger.Debugf("Approve: code %q not found in mirror", code)
		return false, nil
	}

	if err := a.events.PublishItemApproved(ctx, &ItemApprovedEvent{Code: code, ApprovedAt: a.now()}); err != nil {
		a.logger.Warnf("Failed to publish item approved event: %v", e.Wrap(op, err))
	}

	return true, nil
}

// ListItems возвращает строки таблицы. По умолчанию только несогласованные.
func (a *ApprovalUseCase) ListItems(ctx context.Context, filter ApprovalFilter) ([]domain.ApprovalRecord, error) {
	const op = "ApprovalUseCase.ListItems"

	records, err := a.mirror.ReadAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if filter == ApprovalFilterAll {
		return records, nil
	}

	out := make([]domain.ApprovalRecord, 0, len(records))
	for _, r := range records {
		if !r.Approved {
			out = append(out, r)
		}
	}

	return out, nil
}

func (a *ApprovalUseCase) Inconsistencies(ctx context.Context) ([]domain.ApprovalInconsistency, error) {
	const op = "ApprovalUseCase.Inconsistencies"

	rows, err := a.mirror.Inconsistencies(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return rows, nil
}
