package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem описывает нормализованный товар каталога (запись системы учёта).
type CatalogItem struct {
	ExternalID              string // Идентификатор во внешнем каталоге, ключ upsert
	Code                    string // Бизнес-ключ, по нему ищется строка в таблице согласования
	Brand                   string
	Title                   string
	Category1               string
	Category2               string
	Tags                    string
	DescriptionPlain        string           // Текст на языке по умолчанию
	DescriptionMultilingual string           // Блоки всех языков в фиксированном порядке
	Price                   *decimal.Decimal // nil, если у товара нет ни одной цены
	TaxRate                 int
	StockQuantity           int
	ImageURL                string
	LastSyncedAt            time.Time // Проставляется базой при каждом upsert
}
