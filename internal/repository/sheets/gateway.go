package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// missingRangeMessage — начало ответа API на диапазон по несуществующему листу.
const missingRangeMessage = "Unable to parse range"

// GoogleGateway реализует Gateway поверх Google Sheets API v4.
type GoogleGateway struct {
	svc           *gsheets.Service
	spreadsheetID string
}

func NewGoogleGateway(ctx context.Context, cfg *cfg.SheetsCfg) (*GoogleGateway, error) {
	return newGoogleGateway(ctx, cfg.SpreadsheetID,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
}

func newGoogleGateway(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleGateway, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &GoogleGateway{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleGateway) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, quoteSheet(sheet)).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (g *GoogleGateway) UpdateRows(ctx context.Context, sheet string, updates []RowUpdate) (int, error) {
	data := make([]*gsheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &gsheets.ValueRange{
			Range:  rowRange(sheet, u.Row, u.Column, len(u.Values)),
			Values: [][]interface{}{toInterfaces(u.Values)},
		})
	}

	resp, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return int(resp.TotalUpdatedCells), nil
}

func (g *GoogleGateway) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		values = append(values, toInterfaces(r))
	}

	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, quoteSheet(sheet)+"!A1", &gsheets.ValueRange{Values: values}).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// RecreateSheet добавляет новый лист, удаляет все старые и переименовывает новый в sheet
// одним пакетным запросом, затем пишет заголовок.
func (g *GoogleGateway) RecreateSheet(ctx context.Context, sheet string, header []string) error {
	const op = "GoogleGateway.RecreateSheet"

	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return e.Wrap(op, err)
	}

	var maxID int64
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.SheetId > maxID {
			maxID = s.Properties.SheetId
		}
	}
	newID := maxID + 1
	tmpTitle := sheet + "-" + uuid.NewString()[:8]

	requests := []*gsheets.Request{{
		AddSheet: &gsheets.AddSheetRequest{
			Properties: &gsheets.SheetProperties{SheetId: newID, Title: tmpTitle},
		},
	}}
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		requests = append(requests, &gsheets.Request{
			DeleteSheet: &gsheets.DeleteSheetRequest{
				SheetId:         s.Properties.SheetId,
				ForceSendFields: []string{"SheetId"}, // у первого листа id = 0
			},
		})
	}
	requests = append(requests, &gsheets.Request{
		UpdateSheetProperties: &gsheets.UpdateSheetPropertiesRequest{
			Properties: &gsheets.SheetProperties{SheetId: newID, Title: sheet},
			Fields:     "title",
		},
	})

	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do(); err != nil {
		return e.Wrap(op, err)
	}

	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, quoteSheet(sheet)+"!A1", &gsheets.ValueRange{
		Values: [][]interface{}{toInterfaces(header)},
	}).ValueInputOption(valueInputRaw).Context(ctx).Do()
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// isMissingSheet — лист не найден: API не может разобрать диапазон и отвечает 400.
// Остальные 400 — настоящие ошибки, иначе пустой ответ будет принят за расхождение заголовка.
func isMissingSheet(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) &&
		gerr.Code == http.StatusBadRequest &&
		strings.Contains(gerr.Message, missingRangeMessage)
}

// quoteSheet экранирует имя листа для A1-нотации.
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// rowRange строит диапазон вида 'Catalogo'!H5:H5.
func rowRange(sheet string, row, col, n int) string {
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(sheet), ColumnLetter(col), row, ColumnLetter(col+n-1), row)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
