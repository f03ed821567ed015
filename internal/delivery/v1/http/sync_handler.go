package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUC
	logger      logger.Logger
}

func NewSyncHandler(syncUsecase usecase.SyncUC, logger logger.Logger) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase, logger: logger}
}

// syncCatalog
//
//	@Summary		Синхронизация каталога
//	@Description	Загружает каталог из удалённого сервиса и сохраняет товары в базу. Таблицу согласования не меняет
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	SyncReportResponse	"Отчёт запуска"
//	@Failure		409	{object}	ErrorResponse		"Синхронизация уже идёт"
//	@Failure		502	{object}	ErrorResponse		"Ошибка удалённого каталога"
//	@Router			/sync [post]
func (h *SyncHandler) syncCatalog(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncUsecase.SyncCatalog(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())

		code, msg := ToHTTPResponse(err)
		resp := NewErrorResponse(code, msg)
		if report != nil {
			resp.RunID = report.RunID
		}
		WriteSuccess(w, code, resp)
		return
	}

	WriteSuccess(w, http.StatusOK, NewSyncReportResponse(report))
}

// lastReport
//
//	@Summary		Последний отчёт синхронизации
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	SyncReportResponse
//	@Failure		404	{object}	ErrorResponse	"Запусков ещё не было"
//	@Router			/sync/last [get]
func (h *SyncHandler) lastReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncUsecase.LastReport(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewSyncReportResponse(report))
}
