package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"cvcrafter/internal/database"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/errcode"
	"cvcrafter/internal/export"
	"cvcrafter/internal/storage"
	"cvcrafter/internal/tasks"
)

// ObjectStore is the subset of *storage.Client the handlers use.
type ObjectStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
}

// LockReleaser frees a profile's export lock if exportID still holds it.
type LockReleaser interface {
	Release(ctx context.Context, profile, exportID string) error
}

// ExportTaskHandler consumes cv:export tasks.
type ExportTaskHandler struct {
	db        *gorm.DB
	storage   ObjectStore
	publisher Publisher
	lock      LockReleaser
	capturer  export.Capturer
	assembler export.Assembler
	opts      export.Options
	logger    *slog.Logger
}

// NewExportTaskHandler creates the handler. The completion hold is dropped:
// progress is pushed to clients instead.
func NewExportTaskHandler(
	db *gorm.DB,
	storage ObjectStore,
	publisher Publisher,
	lock LockReleaser,
	capturer export.Capturer,
	assembler export.Assembler,
	opts export.Options,
	logger *slog.Logger,
) *ExportTaskHandler {
	opts.Hold = 0
	return &ExportTaskHandler{
		db:        db,
		storage:   storage,
		publisher: publisher,
		lock:      lock,
		capturer:  capturer,
		assembler: assembler,
		opts:      opts,
		logger:    logger,
	}
}

// ProcessTask implements asynq.Handler.
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.CVExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("export_id", payload.ExportID),
		slog.String("profile", payload.Profile),
	)
	log.Info("Starting CV export task...")

	defer func() {
		if err := h.lock.Release(context.WithoutCancel(ctx), payload.Profile, payload.ExportID); err != nil {
			log.Error("release export lock failed", slog.Any("error", err))
		}
	}()

	rec, err := database.FindExport(ctx, h.db, payload.ExportID, payload.Profile)
	if err != nil {
		if errors.Is(err, database.ErrExportNotFound) {
			log.Warn("export record not found, skipping task")
			return nil
		}
		log.Error("query export failed", slog.Any("error", err))
		return err
	}

	notifyErr := func(code int, cause error) {
		ctx := context.WithoutCancel(ctx)
		if err := database.UpdateExport(ctx, h.db, rec, map[string]any{
			"status":        database.ExportFailed,
			"error_message": strings.TrimSpace(cause.Error()),
		}); err != nil {
			log.Error("mark export failed", slog.Any("error", err))
		}
		msg := ExportNotifyMessage{
			Status:        NotifyError,
			ExportID:      rec.PublicID,
			State:         string(export.Failed),
			CorrelationID: payload.CorrelationID,
			ErrorCode:     code,
			ErrorMessage:  strings.TrimSpace(cause.Error()),
		}
		if err := publishNotify(ctx, h.publisher, payload.Profile, msg); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}

	var snap editor.Snapshot
	if err := json.Unmarshal(rec.Snapshot, &snap); err != nil {
		log.Error("decode snapshot failed", slog.Any("error", err))
		notifyErr(errcode.InvalidSnapshot, err)
		return fmt.Errorf("decode snapshot: %v: %w", err, asynq.SkipRetry)
	}

	if err := database.UpdateExport(ctx, h.db, rec, map[string]any{"status": database.ExportRunning}); err != nil {
		log.Warn("mark export running failed", slog.Any("error", err))
	}

	pipeline := export.New(h.capturer, h.assembler, h.opts, log)
	pipeline.OnStatus(func(s export.Status) {
		if s.State == export.Idle || s.State == export.Failed {
			return
		}
		msg := ExportNotifyMessage{
			Status:        NotifyProgress,
			ExportID:      rec.PublicID,
			State:         string(s.State),
			Progress:      s.Progress,
			CorrelationID: payload.CorrelationID,
		}
		if err := publishNotify(ctx, h.publisher, payload.Profile, msg); err != nil {
			log.Warn("publish export progress failed", slog.Any("error", err))
		}
	})

	art, err := pipeline.Export(ctx, snap.Target(), snap.Data.Personal.Name)
	if err != nil {
		notifyErr(errcode.SystemError, err)
		return err
	}

	objectName := storage.ExportKey(payload.Profile, rec.PublicID)
	if err := h.storage.UploadBytes(ctx, objectName, art.Data, storage.ContentTypePDF); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		notifyErr(errcode.SystemError, err)
		return err
	}

	if err := database.UpdateExport(ctx, h.db, rec, map[string]any{
		"status":     database.ExportCompleted,
		"progress":   100,
		"filename":   art.Filename,
		"pages":      art.Pages,
		"object_key": objectName,
	}); err != nil {
		log.Error("update export failed", slog.Any("error", err))
		notifyErr(errcode.SystemError, err)
		return err
	}

	msg := ExportNotifyMessage{
		Status:        NotifyCompleted,
		ExportID:      rec.PublicID,
		State:         string(export.Done),
		Progress:      100,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
		Filename:      art.Filename,
		Pages:         art.Pages,
	}
	if err := publishNotify(ctx, h.publisher, payload.Profile, msg); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
	}

	log.Info("CV export task completed.", slog.Int("pages", art.Pages))
	return nil
}
