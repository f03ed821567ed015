package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/internal/usecase/mocks"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testAPI struct {
	handler    http.Handler
	syncUC     *mocks.MockSyncUC
	approvalUC *mocks.MockApprovalUC
	mirrorUC   *mocks.MockMirrorUC
	feedUC     *mocks.MockFeedUC
}

func newTestAPI(t *testing.T) *testAPI {
	ctrl := gomock.NewController(t)
	api := &testAPI{
		syncUC:     mocks.NewMockSyncUC(ctrl),
		approvalUC: mocks.NewMockApprovalUC(ctrl),
		mirrorUC:   mocks.NewMockMirrorUC(ctrl),
		feedUC:     mocks.NewMockFeedUC(ctrl),
	}

	mux := chi.NewRouter()
	NewRouter(mux, logger.NewDiscardLogger()).Init(api.syncUC, api.approvalUC, api.mirrorUC, api.feedUC)
	api.handler = mux

	return api
}

func (a *testAPI) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestSyncHandler(t *testing.T) {
	t.Run("run report", func(t *testing.T) {
		api := newTestAPI(t)
		api.syncUC.EXPECT().SyncCatalog(gomock.Any()).Return(&usecase.SyncReport{
			RunID:  "run-1",
			Status: domain.SyncRunSucceeded,
			Count:  100,
			Pages:  2,
		}, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/sync")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "run-1", body["run_id"])
		assert.Equal(t, float64(100), body["count"])
		assert.Equal(t, float64(2), body["pages"])
		assert.Equal(t, []any{}, body["failed"])
	})

	t.Run("run already active", func(t *testing.T) {
		api := newTestAPI(t)
		api.syncUC.EXPECT().SyncCatalog(gomock.Any()).Return(nil, e.Wrap("SyncUseCase.SyncCatalog", e.ErrSyncInProgress))

		rec, body := api.do(t, http.MethodPost, "/api/v1/sync")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, e.ErrSyncInProgress.Error(), body["message"])
	})

	t.Run("failed run keeps its id", func(t *testing.T) {
		api := newTestAPI(t)
		api.syncUC.EXPECT().SyncCatalog(gomock.Any()).Return(
			&usecase.SyncReport{RunID: "run-2", Status: domain.SyncRunFailed},
			e.Wrap("page 3", e.ErrTransport),
		)

		rec, body := api.do(t, http.MethodPost, "/api/v1/sync")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "run-2", body["run_id"])
	})

	t.Run("no report yet", func(t *testing.T) {
		api := newTestAPI(t)
		api.syncUC.EXPECT().LastReport(gomock.Any()).Return(nil, e.ErrNoSyncReport)

		rec, _ := api.do(t, http.MethodGet, "/api/v1/sync/last")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestApprovalHandler(t *testing.T) {
	t.Run("list defaults to unapproved", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().ListItems(gomock.Any(), usecase.ApprovalFilterUnapproved).Return([]domain.ApprovalRecord{
			{Row: 3, Code: "B", Translations: map[string]string{"descrizione_fr": "Bonjour"}},
		}, nil)

		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var items []ApprovalItemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "B", items[0].Code)
		assert.Equal(t, "Bonjour", items[0].Translations["descrizione_fr"])
	})

	t.Run("list all", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().ListItems(gomock.Any(), usecase.ApprovalFilterAll).Return(nil, nil)

		rec, _ := api.do(t, http.MethodGet, "/api/v1/items?approval=all")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid filter", func(t *testing.T) {
		api := newTestAPI(t)

		rec, _ := api.do(t, http.MethodGet, "/api/v1/items?approval=approved")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("approve", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().Approve(gomock.Any(), "AB-1").Return(true, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/items/AB-1/approve")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
	})

	t.Run("approve unknown code", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().Approve(gomock.Any(), "ZZ").Return(false, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/items/ZZ/approve")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("approve code with escaped slash", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().Approve(gomock.Any(), "A/1").Return(true, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/items/A%2F1/approve")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
	})

	t.Run("approve code with percent is decoded once", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().Approve(gomock.Any(), "A%25").Return(true, nil)

		rec, _ := api.do(t, http.MethodPost, "/api/v1/items/A%2525/approve")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("inconsistencies", func(t *testing.T) {
		api := newTestAPI(t)
		api.approvalUC.EXPECT().Inconsistencies(gomock.Any()).Return([]domain.ApprovalInconsistency{
			{Row: 4, Code: "C", Approved: "TRUE", Reason: "approved without timestamp"},
		}, nil)

		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/mirror/inconsistencies", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"C"`)
	})
}

func TestMirrorHandler(t *testing.T) {
	t.Run("sync", func(t *testing.T) {
		api := newTestAPI(t)
		api.mirrorUC.EXPECT().SyncMirror(gomock.Any()).Return(&usecase.MirrorSyncResult{Created: 2, Updated: 5}, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/mirror/sync")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2), body["created"])
		assert.Equal(t, float64(5), body["updated"])
	})

	t.Run("sync blocked by header drift", func(t *testing.T) {
		api := newTestAPI(t)
		api.mirrorUC.EXPECT().SyncMirror(gomock.Any()).Return(nil, e.ErrHeaderMismatch)

		rec, _ := api.do(t, http.MethodPost, "/api/v1/mirror/sync")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("reset requires confirm", func(t *testing.T) {
		api := newTestAPI(t)

		rec, _ := api.do(t, http.MethodPost, "/api/v1/mirror/headers/reset")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reset confirmed", func(t *testing.T) {
		api := newTestAPI(t)
		api.mirrorUC.EXPECT().ResetHeaders(gomock.Any(), true).Return(usecase.HeaderCreated, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/mirror/headers/reset?confirm=true")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "created", body["action"])
	})

	t.Run("publish feed", func(t *testing.T) {
		api := newTestAPI(t)
		api.feedUC.EXPECT().PublishApproved(gomock.Any()).Return(&usecase.FeedResult{
			Key:       "feeds/approved-20240517T103000Z.json",
			LatestKey: "feeds/approved-latest.json",
			Items:     3,
		}, nil)

		rec, body := api.do(t, http.MethodPost, "/api/v1/feeds/approved")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "feeds/approved-20240517T103000Z.json", body["key"])
	})
}
