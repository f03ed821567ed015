package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-sync/internal/cfg"
	v1Http "github.com/DRSN-tech/catalog-sync/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-sync/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/catalog-sync/internal/infrastructure/minio"
	"github.com/DRSN-tech/catalog-sync/internal/infrastructure/scheduler"
	"github.com/DRSN-tech/catalog-sync/internal/infrastructure/soap"
	s3Repo "github.com/DRSN-tech/catalog-sync/internal/repository/minio"
	"github.com/DRSN-tech/catalog-sync/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-sync/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-sync/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-sync/internal/repository/sheets"
	"github.com/DRSN-tech/catalog-sync/internal/transformer"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/clients"
	"github.com/DRSN-tech/catalog-sync/pkg/closer"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/DRSN-tech/catalog-sync/pkg/postgres"
	"github.com/DRSN-tech/catalog-sync/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 15 * time.Second
)

// App — собранное приложение: HTTP API, планировщик и все зависимости.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	closer    *closer.Closer
	httpSrv   *v1Http.Server
	scheduler *scheduler.Scheduler
	mirrorUC  *usecase.MirrorUseCase

	// Отменяется последним, после ожидания фоновой очистки фидов
	appCtx    context.Context
	appCancel context.CancelFunc
}

// NewApp подключается к внешним системам и собирает зависимости.
// Ресурсы, открытые до ошибки, закрываются.
func NewApp(cfg *config.Config, logger logger.Logger) (app *App, err error) {
	appCtx, appCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:       cfg,
		logger:    logger,
		closer:    closer.NewCloser(5 * time.Second),
		appCtx:    appCtx,
		appCancel: appCancel,
	}
	a.closer.AddFunc("app context", appCancel)

	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if closeErr := a.closer.Close(ctx); closeErr != nil {
				logger.Warnf("cleanup after failed startup: %v", closeErr)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(appCtx, startupTimeout)
	defer cancel()

	// PostgreSQL
	db, err := initPGDB(ctx, logger, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddFunc("postgres", db.Close)

	txManager := tr.NewManager(db.Pool)
	catalogRepo := pgdb.NewCatalogItemRepo(db.Pool, pgdbConv.NewCatalogItemConv())
	runRepo := pgdb.NewSyncRunRepo(db.Pool, pgdbConv.NewSyncRunConv())

	// Redis
	redisClient := clients.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	syncLock := redis.NewSyncLockRepo(redisClient, cfg.Sync.LockTTL)
	reportCache := redis.NewReportCacheRepo(redisClient, redisConv.NewSyncReportConv(), cfg.Redis)

	// MinIO
	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	objectRepo := s3Repo.NewObjectRepo(minioClient, cfg.Minio.BucketName)
	feedPublisher := minioInfra.NewFeedPublisher(objectRepo, cfg.Minio, logger, appCtx)
	a.closer.Add("feed cleanup", feedPublisher.WaitForCleanup)

	// Kafka
	var events usecase.EventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(logger, cfg.Kafka)
		if err := producer.EnsureTopic(10 * time.Second); err != nil {
			logger.Warnf("Kafka topic %s not ensured: %v", cfg.Kafka.Topic, err)
		}
		a.closer.Add("kafka", func(context.Context) error { return producer.Close() })
		events = producer
	} else {
		logger.Infof("KAFKA_BROKERS is empty, catalog events are disabled")
	}

	// Google Sheets
	gateway, err := sheets.NewGoogleGateway(ctx, cfg.Sheets)
	if err != nil {
		logger.Errorf(err, "failed to initialize sheets client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	mirror, err := sheets.NewMirror(gateway, sheets.DefaultSchema(cfg.Sheets.SheetName), logger)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Удалённый каталог
	fetcher := soap.NewCatalogClient(cfg.Soap, logger)
	normalizer := transformer.New(transformer.Config{
		Languages:       cfg.Sync.Languages,
		DefaultLanguage: cfg.Sync.DefaultLang,
		PriceKeyword:    cfg.Sync.PriceKeyword,
		DefaultTaxRate:  cfg.Sync.DefaultTaxRate,
	})

	syncUC := usecase.NewSyncUC(
		fetcher,
		normalizer,
		catalogRepo,
		runRepo,
		txManager,
		syncLock,
		reportCache,
		events,
		logger,
		usecase.SyncConfig{
			FirstPage:    cfg.Sync.FirstPage,
			MaxPages:     cfg.Sync.MaxPages,
			FetchTimeout: cfg.Sync.FetchTimeout,
			StoreTimeout: cfg.Sync.StoreTimeout,
		},
	)
	approvalUC := usecase.NewApprovalUC(mirror, events, logger)
	a.mirrorUC = usecase.NewMirrorUC(catalogRepo, mirror, logger)
	feedUC := usecase.NewFeedUC(mirror, feedPublisher, logger)

	a.scheduler, err = scheduler.NewScheduler(syncUC, a.mirrorUC, logger, cfg.Sync)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(syncUC, approvalUC, a.mirrorUC, feedUC)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает HTTP-сервер и планировщик и блокируется до сигнала или ошибки сервера.
func (a *App) Run() error {
	ctx, cancel := context.WithTimeout(a.appCtx, startupTimeout)
	action, err := a.mirrorUC.EnsureHeaders(ctx, a.cfg.Sheets.ResetOnDrift)
	cancel()
	switch {
	case errors.Is(err, e.ErrHeaderMismatch):
		a.logger.Warnf("Sheet %q header does not match, call POST /api/v1/mirror/headers/reset?confirm=true", a.cfg.Sheets.SheetName)
	case err != nil:
		a.logger.Errorf(err, "failed to check sheet header")
	default:
		a.logger.Infof("Sheet %q header %s", a.cfg.Sheets.SheetName, action)
	}

	a.scheduler.Start(a.appCtx)
	a.closer.Add("scheduler", a.scheduler.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
