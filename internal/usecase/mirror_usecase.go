package usecase

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

// MirrorUseCase выгружает каталог из базы в таблицу согласования и управляет её заголовком.
type MirrorUseCase struct {
	catalogRepo CatalogRepository
	mirror      SheetMirror
	logger      logger.Logger
}

func NewMirrorUC(catalogRepo CatalogRepository, mirror SheetMirror, logger logger.Logger) *MirrorUseCase {
	return &MirrorUseCase{
		catalogRepo: catalogRepo,
		mirror:      mirror,
		logger:      logger,
	}
}

// SyncMirror сливает все товары базы в таблицу. Согласования и переводы не перезаписываются.
// При расхождении заголовка ничего не пишется.
func (m *MirrorUseCase) SyncMirror(ctx context.Context) (*MirrorSyncResult, error) {
	const op = "MirrorUseCase.SyncMirror"

	match, err := m.mirror.HeadersMatch(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !match {
		return nil, e.Wrap(op, e.ErrHeaderMismatch)
	}

	items, err := m.catalogRepo.ListAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	records := make([]domain.ApprovalRecord, 0, len(items))
	for i := range items {
		records = append(records, ToApprovalRecord(&items[i]))
	}

	res, err := m.mirror.UpsertMany(ctx, records)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	m.logger.Infof("Mirror sync: %d rows created, %d rows updated", res.Created, res.Updated)

	return res, nil
}

// ResetHeaders пересоздаёт таблицу с правильным заголовком. Требует явного подтверждения.
func (m *MirrorUseCase) ResetHeaders(ctx context.Context, confirm bool) (HeaderAction, error) {
	const op = "MirrorUseCase.ResetHeaders"

	if !confirm {
		return "", e.Wrap(op, e.ErrResetNotConfirmed)
	}

	action, err := m.mirror.ReconcileHeaders(ctx)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if action == HeaderCreated {
		m.logger.Warnf("Mirror header reset on request: spreadsheet recreated")
	}

	return action, nil
}

// EnsureHeaders проверяет заголовок при старте. Без resetOnDrift расхождение только логируется
// и возвращается ErrHeaderMismatch.
func (m *MirrorUseCase) EnsureHeaders(ctx context.Context, resetOnDrift bool) (HeaderAction, error) {
	const op = "MirrorUseCase.EnsureHeaders"

	match, err := m.mirror.HeadersMatch(ctx)
	if err != nil {
		return "", e.Wrap(op, err)
	}
	if match {
		return HeaderUnchanged, nil
	}

	if !resetOnDrift {
		m.logger.Warnf("Mirror header drift detected: mirror sync is blocked until headers are reset")
		return HeaderUnchanged, e.Wrap(op, e.ErrHeaderMismatch)
	}

	m.logger.Warnf("Mirror header drift detected: resetting spreadsheet on startup")

	action, err := m.mirror.ReconcileHeaders(ctx)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return action, nil
}

// ToApprovalRecord переводит товар в колонки каталога таблицы. Цена с двумя знаками, без цены — пусто.
func ToApprovalRecord(item *domain.CatalogItem) domain.ApprovalRecord {
	price := ""
	if item.Price != nil {
		price = item.Price.StringFixed(2)
	}

	return domain.ApprovalRecord{
		ExternalID:  item.ExternalID,
		Code:        item.Code,
		Description: item.DescriptionPlain,
		Price:       price,
		Quantity:    strconv.Itoa(item.StockQuantity),
		Category1:   item.Category1,
		Category2:   item.Category2,
		Tags:        item.Tags,
	}
}
