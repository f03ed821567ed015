package converter

import (
	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
)

type SyncReportConverter interface {
	ToRedisModel(entity *usecase.SyncReport) *SyncReportRedisModel
	ToUseCase(model *SyncReportRedisModel) *usecase.SyncReport
}

type SyncReportConv struct{}

func NewSyncReportConv() *SyncReportConv {
	return &SyncReportConv{}
}

func (SyncReportConv) ToRedisModel(entity *usecase.SyncReport) *SyncReportRedisModel {
	if entity == nil {
		return nil
	}

	failed := make([]ItemFailureRedisModel, 0, len(entity.Failed))
	for _, f := range entity.Failed {
		failed = append(failed, ItemFailureRedisModel{
			ExternalID: f.ExternalID,
			Code:       f.Code,
			Page:       f.Page,
			Reason:     f.Reason,
		})
	}

	return &SyncReportRedisModel{
		RunID:      entity.RunID,
		Status:     string(entity.Status),
		Count:      entity.Count,
		Pages:      entity.Pages,
		Failed:     failed,
		Error:      entity.Error,
		StartedAt:  entity.StartedAt,
		FinishedAt: entity.FinishedAt,
	}
}

func (SyncReportConv) ToUseCase(model *SyncReportRedisModel) *usecase.SyncReport {
	if model == nil {
		return nil
	}

	failed := make([]domain.ItemFailure, 0, len(model.Failed))
	for _, f := range model.Failed {
		failed = append(failed, domain.ItemFailure{
			ExternalID: f.ExternalID,
			Code:       f.Code,
			Page:       f.Page,
			Reason:     f.Reason,
		})
	}

	return &usecase.SyncReport{
		RunID:      model.RunID,
		Status:     domain.SyncRunStatus(model.Status),
		Count:      model.Count,
		Pages:      model.Pages,
		Failed:     failed,
		Error:      model.Error,
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
	}
}
