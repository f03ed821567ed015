package converter

import (
	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// CatalogItemConverter преобразует CatalogItem между domain и моделью PostgreSQL.
type CatalogItemConverter interface {
	ToModel(entity *domain.CatalogItem) *CatalogItemModel
	ToEntity(model *CatalogItemModel) (*domain.CatalogItem, error)
}

// SyncRunConverter преобразует SyncRun между domain и моделями PostgreSQL.
type SyncRunConverter interface {
	ToModel(entity *domain.SyncRun) *SyncRunModel
	ToFailuresModel(failures []domain.ItemFailure) *SyncRunFailuresModel
}

type CatalogItemConv struct{}

func NewCatalogItemConv() *CatalogItemConv {
	return &CatalogItemConv{}
}

func (CatalogItemConv) ToModel(entity *domain.CatalogItem) *CatalogItemModel {
	if entity == nil {
		return nil
	}

	var price *string
	if entity.Price != nil {
		p := entity.Price.StringFixed(2)
		price = &p
	}

	return &CatalogItemModel{
		ExternalID:              entity.ExternalID,
		Code:                    entity.Code,
		Brand:                   entity.Brand,
		Title:                   entity.Title,
		Category1:               entity.Category1,
		Category2:               entity.Category2,
		Tags:                    entity.Tags,
		DescriptionPlain:        entity.DescriptionPlain,
		DescriptionMultilingual: entity.DescriptionMultilingual,
		Price:                   price,
		TaxRate:                 int32(entity.TaxRate),
		StockQuantity:           int32(entity.StockQuantity),
		ImageURL:                entity.ImageURL,
		LastSyncedAt:            entity.LastSyncedAt,
	}
}

func (CatalogItemConv) ToEntity(model *CatalogItemModel) (*domain.CatalogItem, error) {
	if model == nil {
		return nil, nil
	}

	var price *decimal.Decimal
	if model.Price != nil {
		p, err := decimal.NewFromString(*model.Price)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		price = &p
	}

	return &domain.CatalogItem{
		ExternalID:              model.ExternalID,
		Code:                    model.Code,
		Brand:                   model.Brand,
		Title:                   model.Title,
		Category1:               model.Category1,
		Category2:               model.Category2,
		Tags:                    model.Tags,
		DescriptionPlain:        model.DescriptionPlain,
		DescriptionMultilingual: model.DescriptionMultilingual,
		Price:                   price,
		TaxRate:                 int(model.TaxRate),
		StockQuantity:           int(model.StockQuantity),
		ImageURL:                model.ImageURL,
		LastSyncedAt:            model.LastSyncedAt,
	}, nil
}

type SyncRunConv struct{}

func NewSyncRunConv() *SyncRunConv {
	return &SyncRunConv{}
}

func (SyncRunConv) ToModel(entity *domain.SyncRun) *SyncRunModel {
	if entity == nil {
		return nil
	}

	return &SyncRunModel{
		ID:         entity.ID,
		Status:     string(entity.Status),
		Pages:      int32(entity.Pages),
		Processed:  int32(entity.Processed),
		Failed:     int32(len(entity.Failures)),
		Error:      entity.Error,
		StartedAt:  entity.StartedAt,
		FinishedAt: entity.FinishedAt,
	}
}

func (SyncRunConv) ToFailuresModel(failures []domain.ItemFailure) *SyncRunFailuresModel {
	model := &SyncRunFailuresModel{
		ExternalIDs: make([]string, 0, len(failures)),
		Codes:       make([]string, 0, len(failures)),
		Pages:       make([]int32, 0, len(failures)),
		Reasons:     make([]string, 0, len(failures)),
	}

	for _, f := range failures {
		model.ExternalIDs = append(model.ExternalIDs, f.ExternalID)
		model.Codes = append(model.Codes, f.Code)
		model.Pages = append(model.Pages, int32(f.Page))
		model.Reasons = append(model.Reasons, f.Reason)
	}

	return model
}
