package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvcrafter/internal/api"
	"cvcrafter/internal/config"
	"cvcrafter/internal/database"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/export"
	"cvcrafter/internal/pdf"
	"cvcrafter/internal/prefs"
	"cvcrafter/internal/storage"
	"cvcrafter/internal/tasks"
	"cvcrafter/internal/theme"
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
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database ready host=%s db=%s", cfg.Database.Host, cfg.Database.Name)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	browser := pdf.NewBrowser(pdf.BrowserConfig{
		Bin:       cfg.Browser.Bin,
		NoSandbox: cfg.Browser.NoSandbox,
		Timeout:   cfg.Browser.Timeout(),
	}, logger)
	defer browser.Close()

	catalog := theme.MustDefault()
	if _, err := catalog.Lookup(cfg.Editor.DefaultTheme); err != nil {
		log.Fatalf("default theme: %v", err)
	}

	manager := editor.NewManager(
		prefs.NewStore(prefs.NewRedis(redisClient), logger),
		catalog,
		browser,
		browser,
		editor.Options{
			DefaultTheme:  cfg.Editor.DefaultTheme,
			PreviewScale:  cfg.Editor.PreviewScale,
			PhotoMaxBytes: cfg.Editor.PhotoMaxBytes,
			Export: export.Options{
				Scale: cfg.Export.Scale,
				Hold:  cfg.Export.Hold(),
			},
		},
		logger,
	)

	var scanner api.Scanner
	if s := api.NewClamdScanner(cfg.Clamd.Address); s != nil {
		scanner = s
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, api.Deps{
		Manager:        manager,
		Catalog:        catalog,
		DB:             db,
		Queue:          asynqClient,
		Lock:           tasks.NewExportLock(redisClient, cfg.Export.LockTTL()),
		Signer:         storageClient,
		Scanner:        scanner,
		Limiter:        api.NewEnqueueLimiter(redisClient, cfg.API.EnqueueLimit),
		PresignTTL:     cfg.MinIO.PresignTTL(),
		Redis:          redisClient,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}
