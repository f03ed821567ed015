package http

import (
	_ "github.com/DRSN-tech/catalog-sync/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(syncUC usecase.SyncUC, approvalUC usecase.ApprovalUC, mirrorUC usecase.MirrorUC, feedUC usecase.FeedUC) {
	r.router.Use(middleware.RequestID, middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerSyncRoutes(v1, NewSyncHandler(syncUC, r.logger))
		registerApprovalRoutes(v1, NewApprovalHandler(approvalUC, r.logger))
		registerMirrorRoutes(v1, NewMirrorHandler(mirrorUC, feedUC, r.logger))
	})
}

func registerSyncRoutes(router chi.Router, h *SyncHandler) {
	router.Route("/sync", func(sr chi.Router) {
		sr.Post("/", h.syncCatalog)
		sr.Get("/last", h.lastReport)
	})
}

func registerApprovalRoutes(router chi.Router, h *ApprovalHandler) {
	router.Route("/items", func(ir chi.Router) {
		ir.Get("/", h.listItems)
		ir.Post("/{code}/approve", h.approveItem)
	})
	router.Get("/mirror/inconsistencies", h.inconsistencies)
}

func registerMirrorRoutes(router chi.Router, h *MirrorHandler) {
	router.Post("/mirror/sync", h.syncMirror)
	router.Post("/mirror/headers/reset", h.resetHeaders)
	router.Post("/feeds/approved", h.publishApproved)
}
