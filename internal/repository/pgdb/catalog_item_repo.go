package pgdb

import (
	"context"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/tr"
	"github.com/jimlawless/whereami"
)

const upsertCatalogItemQuery = `
	INSERT INTO catalog_items (
		external_id, code, brand, title, category1, category2, tags,
		description_plain, description_multilingual, price, tax_rate, stock_quantity, image_url,
		last_synced_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	ON CONFLICT (external_id)
	DO UPDATE SET
		code = EXCLUDED.code,
		brand = EXCLUDED.brand,
		title = EXCLUDED.title,
		category1 = EXCLUDED.category1,
		category2 = EXCLUDED.category2,
		tags = EXCLUDED.tags,
		description_plain = EXCLUDED.description_plain,
		description_multilingual = EXCLUDED.description_multilingual,
		price = EXCLUDED.price,
		tax_rate = EXCLUDED.tax_rate,
		stock_quantity = EXCLUDED.stock_quantity,
		image_url = EXCLUDED.image_url,
		last_synced_at = NOW()
`

const listCatalogItemsQuery = `
	SELECT
		external_id, code, brand, title, category1, category2, tags,
		description_plain, description_multilingual, price::text, tax_rate, stock_quantity, image_url,
		last_synced_at
	FROM catalog_items
	ORDER BY code, external_id
`

// CatalogItemRepo реализует хранилище товаров каталога поверх PostgreSQL.
type CatalogItemRepo struct {
	db   tr.Querier
	conv converter.CatalogItemConverter
}

func NewCatalogItemRepo(db tr.Querier, conv converter.CatalogItemConverter) *CatalogItemRepo {
	return &CatalogItemRepo{
		db:   db,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или перезаписывает товар по external_id.
// external_id и created_at при конфликте не меняются, last_synced_at ставится базой.
func (c *CatalogItemRepo) Upsert(ctx context.Context, item *domain.CatalogItem) error {
	q := tr.QuerierFromCtx(ctx, c.db)
	model := c.conv.ToModel(item)

	if _, err := q.Exec(ctx, upsertCatalogItemQuery,
		model.ExternalID,
		model.Code,
		model.Brand,
		model.Title,
		model.Category1,
		model.Category2,
		model.Tags,
		model.DescriptionPlain,
		model.DescriptionMultilingual,
		model.Price,
		model.TaxRate,
		model.StockQuantity,
		model.ImageURL,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListAll возвращает все товары, отсортированные по коду.
func (c *CatalogItemRepo) ListAll(ctx context.Context) ([]domain.CatalogItem, error) {
	q := tr.QuerierFromCtx(ctx, c.db)

	rows, err := q.Query(ctx, listCatalogItemsQuery)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var model converter.CatalogItemModel
		if err := rows.Scan(
			&model.ExternalID, &model.Code, &model.Brand, &model.Title, &model.Category1, &model.Category2, &model.Tags,
			&model.DescriptionPlain, &model.DescriptionMultilingual, &model.Price, &model.TaxRate, &model.StockQuantity,
			&model.ImageURL, &model.LastSyncedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		item, err := c.conv.ToEntity(&model)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
