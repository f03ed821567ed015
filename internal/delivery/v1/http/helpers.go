package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// SyncReportResponse — отчёт запуска синхронизации.
type SyncReportResponse struct {
	RunID      string               `json:"run_id"`
	Status     string               `json:"status"`
	Count      int                  `json:"count"`
	Pages      int                  `json:"pages"`
	Failed     []domain.ItemFailure `json:"failed"`
	Error      string               `json:"error,omitempty"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
}

func NewSyncReportResponse(r *usecase.SyncReport) *SyncReportResponse {
	failed := r.Failed
	if failed == nil {
		failed = []domain.ItemFailure{}
	}

	return &SyncReportResponse{
		RunID:      r.RunID,
		Status:     string(r.Status),
		Count:      r.Count,
		Pages:      r.Pages,
		Failed:     failed,
		Error:      r.Error,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// ApprovalItemResponse — строка таблицы согласования.
type ApprovalItemResponse struct {
	Row          int               `json:"row"`
	ExternalID   string            `json:"id"`
	Code         string            `json:"code"`
	Description  string            `json:"description"`
	Price        string            `json:"price"`
	Quantity     string            `json:"quantity"`
	Category     string            `json:"category"`
	Subcategory  string            `json:"subcategory"`
	Tags         string            `json:"tags"`
	Approved     bool              `json:"approved"`
	ApprovedAt   string            `json:"approved_at,omitempty"`
	Translations map[string]string `json:"translations,omitempty"`
}

func NewApprovalItemsResponse(records []domain.ApprovalRecord) []ApprovalItemResponse {
	out := make([]ApprovalItemResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ApprovalItemResponse{
			Row:          r.Row,
			ExternalID:   r.ExternalID,
			Code:         r.Code,
			Description:  r.Description,
			Price:        r.Price,
			Quantity:     r.Quantity,
			Category:     r.Category1,
			Subcategory:  r.Category2,
			Tags:         r.Tags,
			Approved:     r.Approved,
			ApprovedAt:   r.ApprovedAt,
			Translations: r.Translations,
		})
	}

	return out
}

type ApproveResponse struct {
	Success bool `json:"success"`
}

type MirrorSyncResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type HeaderResetResponse struct {
	Action string `json:"action"`
}

type FeedResponse struct {
	Key       string `json:"key"`
	LatestKey string `json:"latest_key"`
	Items     int    `json:"items"`
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidApprovalArg):
		return http.StatusBadRequest, e.ErrInvalidApprovalArg.Error()
	case errors.Is(err, e.ErrResetNotConfirmed):
		return http.StatusBadRequest, e.ErrResetNotConfirmed.Error()
	case errors.Is(err, e.ErrItemNotFound):
		return http.StatusNotFound, e.ErrItemNotFound.Error()
	case errors.Is(err, e.ErrNoSyncReport):
		return http.StatusNotFound, e.ErrNoSyncReport.Error()
	case errors.Is(err, e.ErrSyncInProgress):
		return http.StatusConflict, e.ErrSyncInProgress.Error()
	case errors.Is(err, e.ErrHeaderMismatch):
		return http.StatusConflict, e.ErrHeaderMismatch.Error()
	case errors.Is(err, e.ErrNoApprovedItems):
		return http.StatusConflict, e.ErrNoApprovedItems.Error()
	case errors.Is(err, e.ErrSyncCancelled):
		return http.StatusServiceUnavailable, e.ErrSyncCancelled.Error()
	case errors.Is(err, e.ErrTransport):
		return http.StatusBadGateway, e.ErrTransport.Error()
	case errors.Is(err, e.ErrSoapFault):
		return http.StatusBadGateway, e.ErrSoapFault.Error()
	case errors.Is(err, e.ErrMalformedEnvelope):
		return http.StatusBadGateway, e.ErrMalformedEnvelope.Error()
	case errors.Is(err, e.ErrMalformedPayload):
		return http.StatusBadGateway, e.ErrMalformedPayload.Error()
	case errors.Is(err, e.ErrPartialApproval):
		return http.StatusBadGateway, e.ErrPartialApproval.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
