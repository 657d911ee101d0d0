package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/database"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/layout"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/storage"
	"cvcrafter/internal/tasks"
	"cvcrafter/internal/theme"
)

// Thumbnailer renders a document to a JPEG.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, document []byte, quality int) ([]byte, error)
}

// ThemePreviewHandler renders the sample CV in a catalog theme and stores the
// thumbnail.
type ThemePreviewHandler struct {
	db          *gorm.DB
	storage     ObjectStore
	themes      *theme.Registry
	thumbnailer Thumbnailer
	quality     int
	logger      *slog.Logger
}

func NewThemePreviewHandler(
	db *gorm.DB,
	storageClient ObjectStore,
	themes *theme.Registry,
	thumbnailer Thumbnailer,
	quality int,
	logger *slog.Logger,
) *ThemePreviewHandler {
	return &ThemePreviewHandler{
		db:          db,
		storage:     storageClient,
		themes:      themes,
		thumbnailer: thumbnailer,
		quality:     quality,
		logger:      logger,
	}
}

func (h *ThemePreviewHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log := h.logger

	var payload tasks.ThemePreviewPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal theme preview payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log = log.With(
		slog.String("theme", payload.ThemeName),
		slog.Bool("dark", payload.Dark),
		slog.String("correlation_id", payload.CorrelationID),
	)
	log.Info("Starting theme preview generation task...")

	th, err := h.themes.Lookup(payload.ThemeName)
	if err != nil {
		if errors.Is(err, theme.ErrThemeNotFound) {
			log.Warn("theme not found, skipping task")
			return nil
		}
		return err
	}

	snap := editor.Snapshot{Data: cv.Default(), Theme: th, Order: sections.Default(), Dark: payload.Dark}
	doc, err := snap.Document(layout.DocumentOptions{Print: true})
	if err != nil {
		log.Error("render theme document failed", slog.Any("error", err))
		return err
	}

	previewBytes, err := h.thumbnailer.Thumbnail(ctx, doc, h.quality)
	if err != nil {
		log.Error("capture theme screenshot failed", slog.Any("error", err))
		return err
	}

	objectName := storage.ThumbnailKey(th.Name, payload.Dark)
	if err := h.storage.UploadBytes(ctx, objectName, previewBytes, storage.ContentTypeJPEG); err != nil {
		log.Error("upload theme preview failed", slog.Any("error", err))
		return err
	}

	if err := database.SaveThemePreview(ctx, h.db, th.Name, payload.Dark, objectName); err != nil {
		log.Error("save theme preview failed", slog.Any("error", err))
		return err
	}

	log.Info("Theme preview generation completed.")
	return nil
}
