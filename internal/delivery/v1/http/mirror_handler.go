package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

type MirrorHandler struct {
	mirrorUsecase usecase.MirrorUC
	feedUsecase   usecase.FeedUC
	logger        logger.Logger
}

func NewMirrorHandler(mirrorUsecase usecase.MirrorUC, feedUsecase usecase.FeedUC, logger logger.Logger) *MirrorHandler {
	return &MirrorHandler{mirrorUsecase: mirrorUsecase, feedUsecase: feedUsecase, logger: logger}
}

// syncMirror
//
//	@Summary		Выгрузка каталога в таблицу согласования
//	@Description	Обновляет колонки каталога, согласования и переводы сохраняются
//	@Tags			mirror
//	@Produce		json
//	@Success		200	{object}	MirrorSyncResponse
//	@Failure		409	{object}	ErrorResponse	"Заголовок таблицы не совпадает со схемой"
//	@Router			/mirror/sync [post]
func (h *MirrorHandler) syncMirror(w http.ResponseWriter, r *http.Request) {
	res, err := h.mirrorUsecase.SyncMirror(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MirrorSyncResponse{Created: res.Created, Updated: res.Updated})
}

// resetHeaders
//
//	@Summary		Сброс заголовка таблицы
//	@Description	При расхождении заголовка удаляет все листы и создаёт один с правильным заголовком
//	@Tags			mirror
//	@Produce		json
//	@Param			confirm	query		bool	true	"Подтверждение, должно быть true"
//	@Success		200		{object}	HeaderResetResponse
//	@Failure		400		{object}	ErrorResponse	"Нет подтверждения"
//	@Router			/mirror/headers/reset [post]
func (h *MirrorHandler) resetHeaders(w http.ResponseWriter, r *http.Request) {
	confirm, err := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err != nil || !confirm {
		WriteError(w, e.ErrResetNotConfirmed)
		return
	}

	action, err := h.mirrorUsecase.ResetHeaders(r.Context(), confirm)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, HeaderResetResponse{Action: string(action)})
}

// publishApproved
//
//	@Summary		Публикация фида согласованных товаров
//	@Tags			feeds
//	@Produce		json
//	@Success		201	{object}	FeedResponse
//	@Failure		409	{object}	ErrorResponse	"Нет согласованных товаров"
//	@Router			/feeds/approved [post]
func (h *MirrorHandler) publishApproved(w http.ResponseWriter, r *http.Request) {
	res, err := h.feedUsecase.PublishApproved(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, FeedResponse{Key: res.Key, LatestKey: res.LatestKey, Items: res.Items})
}
