package sheets

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-sync/pkg/e"
)

// Колонки листа согласования.
const (
	ColID            = "id"
	ColCode          = "codice"
	ColDescription   = "descrizione"
	ColPrice         = "prezzo"
	ColQuantity      = "quantita"
	ColCategory      = "categoria"
	ColSubcategory   = "sottocategoria"
	ColApproved      = "approvato"
	ColTags          = "tags"
	ColDescriptionFR = "descrizione_fr"
	ColDescriptionES = "descrizione_es"
	ColDescriptionDE = "descrizione_de"
	ColDescriptionEN = "descrizione_en"
	ColUpdatedAt     = "ultimo_aggiornamento"
)

// Schema — единственная точка настройки листа: заголовок, ключ, колонки согласования
// и колонки, которые заполняются людьми и не перезаписываются синхронизацией.
type Schema struct {
	SheetName        string
	Header           []string
	KeyColumn        string
	ApprovalColumn   string
	TimestampColumn  string
	PreservedColumns []string
	ApprovedToken    string
	RejectedToken    string
	TimestampLayout  string
}

// DefaultSchema возвращает схему листа каталога.
func DefaultSchema(sheetName string) Schema {
	return Schema{
		SheetName: sheetName,
		Header: []string{
			ColID, ColCode, ColDescription, ColPrice, ColQuantity, ColCategory, ColSubcategory,
			ColApproved, ColTags, ColDescriptionFR, ColDescriptionES, ColDescriptionDE, ColDescriptionEN,
			ColUpdatedAt,
		},
		KeyColumn:       ColCode,
		ApprovalColumn:  ColApproved,
		TimestampColumn: ColUpdatedAt,
		PreservedColumns: []string{
			ColApproved, ColDescriptionFR, ColDescriptionES, ColDescriptionDE, ColDescriptionEN, ColUpdatedAt,
		},
		ApprovedToken:   "TRUE",
		RejectedToken:   "FALSE",
		TimestampLayout: time.DateTime,
	}
}

// Validate проверяет, что служебные колонки входят в заголовок.
func (s Schema) Validate() error {
	const op = "Schema.Validate"

	if s.SheetName == "" || len(s.Header) == 0 {
		return e.Wrap(op, fmt.Errorf("sheet name and header are required"))
	}

	for _, col := range append([]string{s.KeyColumn, s.ApprovalColumn, s.TimestampColumn}, s.PreservedColumns...) {
		if _, err := s.Index(col); err != nil {
			return e.Wrap(op, err)
		}
	}

	return nil
}

// Index возвращает позицию колонки в заголовке (с нуля).
func (s Schema) Index(col string) (int, error) {
	idx := slices.Index(s.Header, col)
	if idx < 0 {
		return 0, e.Wrap(col, e.ErrUnknownColumn)
	}
	return idx, nil
}

// ColumnLetter возвращает буквенный адрес колонки: approvato -> H.
func (s Schema) ColumnLetter(col string) (string, error) {
	idx, err := s.Index(col)
	if err != nil {
		return "", err
	}
	return ColumnLetter(idx), nil
}

func (s Schema) IsPreserved(col string) bool {
	return slices.Contains(s.PreservedColumns, col)
}

// HeaderMatches сравнивает строку с заголовком схемы: значения обрезаются, порядок и длина важны.
func (s Schema) HeaderMatches(row []string) bool {
	if len(row) != len(s.Header) {
		return false
	}
	for i, v := range row {
		if strings.TrimSpace(v) != s.Header[i] {
			return false
		}
	}
	return true
}

// IsApproved сообщает, стоит ли в ячейке токен согласования.
func (s Schema) IsApproved(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), s.ApprovedToken)
}

// ColumnLetter переводит индекс колонки (с нуля) в буквы A1-нотации: 0 -> A, 26 -> AA.
func ColumnLetter(idx int) string {
	var letters []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}
