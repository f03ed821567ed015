package converter

import "time"

// CatalogItemModel представляет запись таблицы catalog_items в PostgreSQL.
// Цена хранится как NUMERIC и передаётся текстом, NULL — цена не определена.
type CatalogItemModel struct {
	ExternalID              string    `db:"external_id"`
	Code                    string    `db:"code"`
	Brand                   string    `db:"brand"`
	Title                   string    `db:"title"`
	Category1               string    `db:"category1"`
	Category2               string    `db:"category2"`
	Tags                    string    `db:"tags"`
	DescriptionPlain        string    `db:"description_plain"`
	DescriptionMultilingual string    `db:"description_multilingual"`
	Price                   *string   `db:"price"`
	TaxRate                 int32     `db:"tax_rate"`
	StockQuantity           int32     `db:"stock_quantity"`
	ImageURL                string    `db:"image_url"`
	LastSyncedAt            time.Time `db:"last_synced_at"`
}

// SyncRunModel представляет запись таблицы sync_runs в PostgreSQL.
type SyncRunModel struct {
	ID         string     `db:"id"`
	Status     string     `db:"status"`
	Pages      int32      `db:"pages"`
	Processed  int32      `db:"processed"`
	Failed     int32      `db:"failed"`
	Error      string     `db:"error"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

// SyncRunFailuresModel — колонки sync_run_failures одного запуска для вставки через unnest.
type SyncRunFailuresModel struct {
	ExternalIDs []string
	Codes       []string
	Pages       []int32
	Reasons     []string
}
