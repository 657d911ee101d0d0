package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvcrafter/internal/config"
	"cvcrafter/internal/database"
	"cvcrafter/internal/export"
	"cvcrafter/internal/metrics"
	"cvcrafter/internal/pdf"
	"cvcrafter/internal/storage"
	"cvcrafter/internal/tasks"
	"cvcrafter/internal/theme"
	"cvcrafter/internal/worker"
)

func main() {
	cfg := config.MustLoad()
	if err := cfg.ValidateServices(); err != nil {
		log.Fatalf("validate config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	browser := pdf.NewBrowser(pdf.BrowserConfig{
		Bin:       cfg.Browser.Bin,
		NoSandbox: cfg.Browser.NoSandbox,
		Timeout:   cfg.Browser.Timeout(),
	}, logger)
	defer browser.Close()

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	exportHandler := worker.NewExportTaskHandler(
		db,
		storageClient,
		redisClient,
		tasks.NewExportLock(redisClient, cfg.Export.LockTTL()),
		browser,
		browser,
		export.Options{Scale: cfg.Export.Scale},
		logger,
	)
	previewHandler := worker.NewThemePreviewHandler(
		db,
		storageClient,
		theme.MustDefault(),
		browser,
		cfg.Export.ThumbnailQuality,
		logger,
	)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeCVExport, exportHandler)
	mux.Handle(tasks.TypeThemePreview, previewHandler)

	logger.Info("worker service started",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.Int("concurrency", cfg.Worker.Concurrency),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
