package http

import (
	"net/http"
	"net/url"

	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ApprovalHandler struct {
	approvalUsecase usecase.ApprovalUC
	logger          logger.Logger
}

func NewApprovalHandler(approvalUsecase usecase.ApprovalUC, logger logger.Logger) *ApprovalHandler {
	return &ApprovalHandler{approvalUsecase: approvalUsecase, logger: logger}
}

// listItems
//
//	@Summary		Товары таблицы согласования
//	@Tags			approval
//	@Produce		json
//	@Param			approval	query		string					false	"all или unapproved (по умолчанию)"
//	@Success		200			{array}		ApprovalItemResponse
//	@Failure		400			{object}	ErrorResponse	"Неверный фильтр"
//	@Router			/items [get]
func (h *ApprovalHandler) listItems(w http.ResponseWriter, r *http.Request) {
	filter, err := usecase.ParseApprovalFilter(r.URL.Query().Get("approval"))
	if err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	records, err := h.approvalUsecase.ListItems(r.Context(), filter)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewApprovalItemsResponse(records))
}

// approveItem
//
//	@Summary		Согласование товара
//	@Description	Ставит флаг согласования и время. Колонки каталога и переводы не меняются
//	@Tags			approval
//	@Produce		json
//	@Param			code	path		string	true	"Код товара"
//	@Success		200		{object}	ApproveResponse
//	@Failure		404		{object}	ApproveResponse	"Код не найден"
//	@Failure		502		{object}	ErrorResponse	"Запись выполнена частично"
//	@Router			/items/{code}/approve [post]
func (h *ApprovalHandler) approveItem(w http.ResponseWriter, r *http.Request) {
	ok, err := h.approvalUsecase.Approve(r.Context(), pathParam(r, "code"))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if !ok {
		WriteSuccess(w, http.StatusNotFound, ApproveResponse{Success: false})
		return
	}

	WriteSuccess(w, http.StatusOK, ApproveResponse{Success: true})
}

// inconsistencies
//
//	@Summary		Строки с расхождением флага и времени согласования
//	@Tags			approval
//	@Produce		json
//	@Success		200	{array}	domain.ApprovalInconsistency
//	@Router			/mirror/inconsistencies [get]
func (h *ApprovalHandler) inconsistencies(w http.ResponseWriter, r *http.Request) {
	rows, err := h.approvalUsecase.Inconsistencies(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, rows)
}

// pathParam возвращает параметр маршрута без экранирования. chi берёт значение из RawPath,
// если он задан, и тогда "%2F" приходит как есть.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}

	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}
