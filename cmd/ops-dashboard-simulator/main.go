package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Application
	applicationPort "github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/application/usecase"

	// Domain
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"

	// Infrastructure
	redisCache "github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/cache/redis"
	"github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/collector"
	natsInfra "github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/observability/cloudwatch"
	dynamodbRepo "github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/persistence/file"
	"github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/persistence/postgres"
	"github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/persistence/sqlite"
	s3storage "github.com/dreschagin/ops-dashboard-simulator/internal/infrastructure/storage/s3"

	// Interfaces
	httpInterface "github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/handler"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/internal/metrics"

	// Shared
	"github.com/dreschagin/ops-dashboard-simulator/pkg/config"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := valueobject.TimeRange(cfg.Simulation.TimeRange).Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid SIM_TIME_RANGE: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.NewWithOptions(cfg.Log.Level, cfg.Log.Format, os.Stdout).
		With("environment", cfg.Simulation.Environment)
	log.Info("Starting Ops Dashboard Simulator", "storage", cfg.Storage.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Хранилище snapshot и каталога API
	storages, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize storage", err)
		os.Exit(1)
	}
	defer storages.close()
	repo, pingers := storages.snapshots, storages.pingers

	// 4. Prometheus
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics := metrics.New(registry)

	// 5. CloudWatch
	var metricsPublisher *cloudwatch.MetricsPublisher
	if cfg.CloudWatch.MetricsEnabled {
		metricsPublisher, err = cloudwatch.NewMetricsPublisher(ctx, cloudwatch.MetricsPublisherConfig{
			Namespace:         cfg.CloudWatch.Namespace,
			Region:            cfg.AWS.Region,
			Endpoint:          cfg.AWS.Endpoint,
			AccessKeyID:       cfg.AWS.AccessKeyID,
			SecretAccessKey:   cfg.AWS.SecretAccessKey,
			DefaultDimensions: map[string]string{"Environment": cfg.Simulation.Environment},
			FlushInterval:     cfg.CloudWatch.FlushInterval,
		}, log)
		if err != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", err)
			os.Exit(1)
		}
		log.Info("CloudWatch metrics publisher initialized")
	}

	var logsPublisher *cloudwatch.LogsPublisher
	if cfg.CloudWatch.LogsEnabled {
		logsPublisher, err = cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:    cfg.CloudWatch.LogGroup,
			LogStreamName:   cfg.CloudWatch.LogStream,
			Service:         "ops-dashboard-simulator",
			Region:          cfg.AWS.Region,
			Endpoint:        cfg.AWS.Endpoint,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			FlushInterval:   cfg.CloudWatch.FlushInterval,
			AutoCreate:      true,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", err)
			os.Exit(1)
		}
		log.SetLogPublisher(logsPublisher)
		log.Info("CloudWatch logs publisher initialized")
	}

	// 6. NATS, Redis, S3; недоступный брокер или кеш не мешает запуску
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisher, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			eventPublisher = publisher
			defer publisher.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	}

	var cache applicationPort.Cache
	if cfg.Redis.Enabled {
		redisImpl, initErr := redisCache.NewRedisCache(ctx, redisCache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if initErr != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", "error", initErr.Error())
		} else {
			cache = redisImpl
			pingers["redis"] = redisImpl
			defer redisImpl.Close()
			log.Info("Redis snapshot cache initialized")
		}
	}

	var exporter applicationPort.SnapshotExporter
	if cfg.S3.Enabled {
		store, initErr := s3storage.NewObjectStorage(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			URLMode:         s3storage.URLMode(cfg.S3.URLMode),
			PresignedTTL:    cfg.S3.PresignedTTL,
		})
		if initErr != nil {
			log.Error("Failed to initialize S3 export storage", initErr)
			os.Exit(1)
		}
		exporter = usecase.NewExportSnapshotUseCase(store, usecase.ExportSnapshotConfig{KeyPrefix: cfg.S3.KeyPrefix}, log)
		log.Info("S3 snapshot export enabled", "every_ticks", cfg.S3.ExportEvery)
	}

	// 7. Domain и Application
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log.Info("Random source initialized", "seed", seed)

	hub := wsInfra.NewHub(log)
	holder := usecase.NewSnapshotHolder()

	loadUC := usecase.NewLoadSnapshotUseCase(
		holder,
		repo,
		file.NewSeedSource(cfg.Simulation.SeedFile),
		service.NewSnapshotValidator(),
		log,
	)

	effects := usecase.AdvanceSnapshotSideEffects{
		Notifier:    hub,
		Events:      eventPublisher,
		Cache:       cache,
		Exporter:    exporter,
		Observer:    promMetrics,
		ExportEvery: cfg.S3.ExportEvery,
	}
	if metricsPublisher != nil {
		effects.Metrics = metricsPublisher
	}
	advanceUC := usecase.NewAdvanceSnapshotUseCase(holder, service.NewSnapshotTicker(rnd), repo, effects, log)

	getCurrentUC := usecase.NewGetCurrentSnapshotUseCase(holder, cache, log)

	catalogValidator := service.NewAPICatalogValidator()
	catalog := usecase.NewAPICatalogStore(storages.catalog)
	loadCatalogUC := usecase.NewLoadAPICatalogUseCase(
		storages.catalog,
		file.NewAPICatalogRepository(cfg.Simulation.CatalogSeedFile),
		catalogValidator,
		log,
	)

	// 8. HTTP
	authConfig := middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
		JWTSecret:   cfg.Security.JWTSecret,
	}
	handlers := httpInterface.Handlers{
		Dashboard: handler.NewDashboardHandler(getCurrentUC, log),
		APIs: handler.NewAPIsHandler(
			usecase.NewListAPIsUseCase(catalog),
			usecase.NewGetAPIUseCase(catalog),
			usecase.NewCreateAPIUseCase(catalog, catalogValidator, log),
			usecase.NewUpdateAPIUseCase(catalog, catalogValidator, log),
			usecase.NewDeleteAPIUseCase(catalog, log),
			log,
		),
		Alerts:    handler.NewAlertsHandler(usecase.NewListOpenTicketsUseCase(getCurrentUC), log),
		Health:    handler.NewHealthHandler(holder, collector.NewSystemStatsCollector("/"), pingers, log),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log),
		Auth:      handler.NewAuthAPIHandler(authConfig, log),
	}
	router := httpInterface.NewRouter(handlers, cfg.Security, cfg.RateLimit, promMetrics, registry, log)

	// 9. Загружаем начальный snapshot и каталог
	if _, err := loadUC.Execute(ctx); err != nil {
		log.Error("Failed to load initial snapshot", err)
		os.Exit(1)
	}
	if _, err := loadCatalogUC.Execute(ctx); err != nil {
		log.Error("Failed to load API catalog", err)
		os.Exit(1)
	}

	// 10. Фоновые процессы
	go hub.Run(ctx)
	log.Info("WebSocket hub started")

	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		runTicker(ctx, advanceUC, cfg.Simulation.Interval, log)
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 11. Graceful shutdown
	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем tick loop, текущий цикл дорабатывает до конца
	cancel()
	<-tickerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	if metricsPublisher != nil {
		log.Info("Flushing CloudWatch metrics buffer...")
		if err := metricsPublisher.Close(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}

	log.Info("Server stopped gracefully")

	if logsPublisher != nil {
		if err := logsPublisher.Close(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to flush CloudWatch logs: %v\n", err)
		}
	}
}

// runTicker вызывает один цикл на каждый интервал. Пропущенные интервалы не догоняются.
func runTicker(ctx context.Context, uc *usecase.AdvanceSnapshotUseCase, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Simulation ticker started", "interval", interval.String())

	for {
		select {
		case <-ticker.C:
			// цикл не прерывается на середине сохранения
			if err := uc.Execute(context.WithoutCancel(ctx)); err != nil {
				log.Error("Tick failed", err)
			}
		case <-ctx.Done():
			log.Info("Simulation ticker stopped")
			return
		}
	}
}

type storage struct {
	snapshots repository.SnapshotRepository
	catalog   repository.APICatalogRepository
	pingers   map[string]handler.Pinger
	close     func()
}

// openStorage выбирает хранилище по STORAGE_DRIVER
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	st := &storage{pingers: make(map[string]handler.Pinger), close: func() {}}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, cfg.Storage.Database.DSN(), cfg.Storage.Database.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		st.snapshots = postgres.NewSnapshotRepository(db)
		st.catalog = postgres.NewAPICatalogRepository(db)
		st.pingers["postgres"] = handler.PingFunc(db.PingContext)
		st.close = closer(db, log)
		log.Info("Database connected successfully")

	case config.StorageSQLite:
		repo, err := sqlite.Open(ctx, cfg.Storage.SQLite)
		if err != nil {
			return nil, err
		}
		st.snapshots = repo
		st.catalog = repo.APICatalog()
		st.close = func() { _ = repo.Close() }
		log.Info("SQLite storage opened", "path", cfg.Storage.SQLite)

	case config.StorageDynamoDB:
		repo, err := dynamodbRepo.NewSnapshotRepository(ctx, dynamodbRepo.Config{
			TableName:       cfg.Storage.DynamoDB.TableName,
			Region:          cfg.AWS.Region,
			Endpoint:        cfg.AWS.Endpoint,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			StrongReads:     cfg.Storage.DynamoDB.StrongReads,
		})
		if err != nil {
			return nil, err
		}
		st.snapshots = repo
		st.catalog = repo.APICatalog()
		log.Info("DynamoDB storage initialized", "table", cfg.Storage.DynamoDB.TableName)

	default:
		st.snapshots = file.NewSnapshotRepository(cfg.Storage.FilePath)
		st.catalog = file.NewAPICatalogRepository(cfg.Storage.CatalogPath)
		log.Info("File storage initialized", "path", cfg.Storage.FilePath, "catalog", cfg.Storage.CatalogPath)
	}

	return st, nil
}

func closer(db *sql.DB, log *logger.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", err)
		}
	}
}
