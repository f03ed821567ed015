// Package sheets хранит зеркало каталога в Google Sheets для ручного согласования.
//
// Поиск строки по коду — линейный проход по листу, O(rows) на вызов. Для каталогов
// в несколько тысяч строк этого достаточно; массовое слияние (UpsertMany) строит индекс
// по коду один раз на запуск.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

// RowUpdate — подряд идущие ячейки одной строки листа.
type RowUpdate struct {
	Row    int // номер строки листа, с 1; данные начинаются со второй
	Column int // индекс первой колонки, с 0
	Values []string
}

// Gateway — минимальный набор операций над таблицей, нужный зеркалу.
type Gateway interface {
	// ReadRows возвращает все строки листа, включая заголовок. Отсутствующий лист — пустой результат.
	ReadRows(ctx context.Context, sheet string) ([][]string, error)
	// UpdateRows пишет все диапазоны одним пакетным запросом и возвращает число обновлённых ячеек.
	UpdateRows(ctx context.Context, sheet string, updates []RowUpdate) (int, error)
	AppendRows(ctx context.Context, sheet string, rows [][]string) error
	// RecreateSheet удаляет все листы документа и создаёт один лист с заголовком.
	RecreateSheet(ctx context.Context, sheet string, header []string) error
}

// Mirror реализует слияние каталога в лист без потери согласований и переводов.
type Mirror struct {
	gw     Gateway
	schema Schema
	logger logger.Logger
	now    func() time.Time

	keyIdx       int
	approvalIdx  int
	timestampIdx int
}

func NewMirror(gw Gateway, schema Schema, logger logger.Logger) (*Mirror, error) {
	const op = "NewMirror"

	if err := schema.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	keyIdx, _ := schema.Index(schema.KeyColumn)
	approvalIdx, _ := schema.Index(schema.ApprovalColumn)
	timestampIdx, _ := schema.Index(schema.TimestampColumn)

	return &Mirror{
		gw:           gw,
		schema:       schema,
		logger:       logger,
		now:          time.Now,
		keyIdx:       keyIdx,
		approvalIdx:  approvalIdx,
		timestampIdx: timestampIdx,
	}, nil
}

// ReconcileHeaders сверяет первую строку с заголовком схемы. При расхождении все листы
// удаляются и создаётся один лист с правильным заголовком: строки, ещё не выгруженные
// повторно, теряются. Вызывается только явно.
func (m *Mirror) ReconcileHeaders(ctx context.Context) (usecase.HeaderAction, error) {
	const op = "Mirror.ReconcileHeaders"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	current := firstRow(rows)
	if m.schema.HeaderMatches(current) {
		return usecase.HeaderUnchanged, nil
	}

	m.logger.Warnf(
		"sheet %q header drift (got %v, want %v): recreating spreadsheet, %d existing rows are discarded",
		m.schema.SheetName, current, m.schema.Header, max(len(rows)-1, 0),
	)

	if err := m.gw.RecreateSheet(ctx, m.schema.SheetName, m.schema.Header); err != nil {
		return "", e.Wrap(op, err)
	}

	return usecase.HeaderCreated, nil
}

// HeadersMatch проверяет заголовок без изменений листа.
func (m *Mirror) HeadersMatch(ctx context.Context) (bool, error) {
	const op = "Mirror.HeadersMatch"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	return m.schema.HeaderMatches(firstRow(rows)), nil
}

// FindByCode возвращает номер первой строки листа с данным кодом.
func (m *Mirror) FindByCode(ctx context.Context, code string) (int, bool, error) {
	const op = "Mirror.FindByCode"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return 0, false, e.Wrap(op, err)
	}

	row, found := m.findRow(rows, code)
	return row, found, nil
}

// MarkApproved ставит флаг согласования и время одним пакетным запросом.
// Неизвестный код — false без записи. Если провайдер обновил не все ячейки,
// возвращается ErrPartialApproval: строка остаётся как есть и видна в Inconsistencies.
func (m *Mirror) MarkApproved(ctx context.Context, code string) (bool, error) {
	const op = "Mirror.MarkApproved"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	row, found := m.findRow(rows, code)
	if !found {
		return false, nil
	}

	updates := []RowUpdate{
		{Row: row, Column: m.approvalIdx, Values: []string{m.schema.ApprovedToken}},
		{Row: row, Column: m.timestampIdx, Values: []string{m.now().Format(m.schema.TimestampLayout)}},
	}

	updated, err := m.gw.UpdateRows(ctx, m.schema.SheetName, updates)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	if updated < len(updates) {
		err := fmt.Errorf("%w: code %s row %d, %d of %d cells", e.ErrPartialApproval, code, row, updated, len(updates))
		m.logger.Errorf(err, "approval left inconsistent")
		return false, e.Wrap(op, err)
	}

	return true, nil
}

// UpsertByCode обновляет в найденной строке только колонки из каталога, либо добавляет строку
// с пустыми сохраняемыми колонками. Сохраняемые ячейки существующих строк не отправляются вовсе.
func (m *Mirror) UpsertByCode(ctx context.Context, record *domain.ApprovalRecord) (usecase.UpsertAction, error) {
	const op = "Mirror.UpsertByCode"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if row, found := m.findRow(rows, record.Code); found {
		if _, err := m.gw.UpdateRows(ctx, m.schema.SheetName, m.upstreamUpdates(row, record)); err != nil {
			return "", e.Wrap(op, err)
		}
		return usecase.UpsertUpdated, nil
	}

	if err := m.gw.AppendRows(ctx, m.schema.SheetName, [][]string{m.newRow(record)}); err != nil {
		return "", e.Wrap(op, err)
	}

	return usecase.UpsertCreated, nil
}

// UpsertMany — то же, что UpsertByCode для каждой записи, но с одним чтением листа,
// одним пакетным обновлением и одним добавлением.
func (m *Mirror) UpsertMany(ctx context.Context, records []domain.ApprovalRecord) (*usecase.MirrorSyncResult, error) {
	const op = "Mirror.UpsertMany"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	index := make(map[string]int, len(rows))
	for i := len(rows) - 1; i >= 1; i-- {
		if code := cell(rows[i], m.keyIdx); code != "" {
			index[code] = i + 1
		}
	}

	var (
		order    []int
		latest   = make(map[int]*domain.ApprovalRecord)
		appends  [][]string
		appended = make(map[string]int)
	)

	for i := range records {
		rec := &records[i]
		code := strings.TrimSpace(rec.Code)
		if code == "" {
			m.logger.Warnf("mirror upsert: record with external id %q has no code, skipped", rec.ExternalID)
			continue
		}

		if row, ok := index[code]; ok {
			if _, seen := latest[row]; !seen {
				order = append(order, row)
			}
			latest[row] = rec
			continue
		}

		if pos, seen := appended[code]; seen {
			appends[pos] = m.newRow(rec)
			continue
		}
		appended[code] = len(appends)
		appends = append(appends, m.newRow(rec))
	}

	var updates []RowUpdate
	for _, row := range order {
		updates = append(updates, m.upstreamUpdates(row, latest[row])...)
	}

	if len(updates) > 0 {
		if _, err := m.gw.UpdateRows(ctx, m.schema.SheetName, updates); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if len(appends) > 0 {
		if err := m.gw.AppendRows(ctx, m.schema.SheetName, appends); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return &usecase.MirrorSyncResult{Created: len(appends), Updated: len(order)}, nil
}

// ReadAll возвращает все непустые строки данных.
func (m *Mirror) ReadAll(ctx context.Context) ([]domain.ApprovalRecord, error) {
	const op = "Mirror.ReadAll"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	records := make([]domain.ApprovalRecord, 0, max(len(rows)-1, 0))
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		records = append(records, m.toRecord(rows[i], i+1))
	}

	return records, nil
}

// Inconsistencies находит строки, где флаг согласования и время согласования расходятся.
func (m *Mirror) Inconsistencies(ctx context.Context) ([]domain.ApprovalInconsistency, error) {
	const op = "Mirror.Inconsistencies"

	rows, err := m.gw.ReadRows(ctx, m.schema.SheetName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var out []domain.ApprovalInconsistency
	for i := 1; i < len(rows); i++ {
		flag := cell(rows[i], m.approvalIdx)
		ts := cell(rows[i], m.timestampIdx)
		approved := m.schema.IsApproved(flag)

		var reason string
		switch {
		case approved && ts == "":
			reason = "approved without timestamp"
		case !approved && ts != "":
			reason = "timestamp without approval"
		default:
			continue
		}

		out = append(out, domain.ApprovalInconsistency{
			Row:        i + 1,
			Code:       cell(rows[i], m.keyIdx),
			Approved:   flag,
			ApprovedAt: ts,
			Reason:     reason,
		})
	}

	return out, nil
}

func (m *Mirror) findRow(rows [][]string, code string) (int, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, false
	}

	for i := 1; i < len(rows); i++ {
		if cell(rows[i], m.keyIdx) == code {
			return i + 1, true
		}
	}

	return 0, false
}

// newRow собирает строку для добавления: колонки каталога из record, остальные пустые.
func (m *Mirror) newRow(record *domain.ApprovalRecord) []string {
	out := make([]string, len(m.schema.Header))
	for i, col := range m.schema.Header {
		if m.schema.IsPreserved(col) {
			continue
		}
		out[i], _ = upstreamValue(record, col)
	}

	return out
}

// upstreamUpdates делит колонки каталога строки row на непрерывные диапазоны.
// Сохраняемые колонки и колонки вне каталога разрывают диапазон и не пишутся.
func (m *Mirror) upstreamUpdates(row int, record *domain.ApprovalRecord) []RowUpdate {
	var (
		out []RowUpdate
		cur *RowUpdate
	)

	for i, col := range m.schema.Header {
		v, ok := upstreamValue(record, col)
		if !ok || m.schema.IsPreserved(col) {
			cur = nil
			continue
		}

		if cur == nil {
			out = append(out, RowUpdate{Row: row, Column: i})
			cur = &out[len(out)-1]
		}
		cur.Values = append(cur.Values, v)
	}

	return out
}

func (m *Mirror) toRecord(row []string, rowNum int) domain.ApprovalRecord {
	get := func(col string) string {
		idx, err := m.schema.Index(col)
		if err != nil {
			return ""
		}
		return cell(row, idx)
	}

	translations := make(map[string]string)
	for _, col := range m.schema.PreservedColumns {
		if strings.HasPrefix(col, ColDescription+"_") {
			if v := get(col); v != "" {
				translations[col] = v
			}
		}
	}

	return domain.ApprovalRecord{
		Row:          rowNum,
		ExternalID:   get(ColID),
		Code:         cell(row, m.keyIdx),
		Description:  get(ColDescription),
		Price:        get(ColPrice),
		Quantity:     get(ColQuantity),
		Category1:    get(ColCategory),
		Category2:    get(ColSubcategory),
		Tags:         get(ColTags),
		Approved:     m.schema.IsApproved(cell(row, m.approvalIdx)),
		ApprovedAt:   cell(row, m.timestampIdx),
		Translations: translations,
	}
}

func upstreamValue(record *domain.ApprovalRecord, col string) (string, bool) {
	switch col {
	case ColID:
		return record.ExternalID, true
	case ColCode:
		return record.Code, true
	case ColDescription:
		return record.Description, true
	case ColPrice:
		return record.Price, true
	case ColQuantity:
		return record.Quantity, true
	case ColCategory:
		return record.Category1, true
	case ColSubcategory:
		return record.Category2, true
	case ColTags:
		return record.Tags, true
	default:
		return "", false
	}
}

func firstRow(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func cell(row []string, idx int) string {
	return strings.TrimSpace(cellRaw(row, idx))
}

func cellRaw(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
