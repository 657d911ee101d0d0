package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/database"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/export"
	"cvcrafter/internal/metrics"
	"cvcrafter/internal/tasks"
)

// ExportLocker guards a profile against concurrent asynchronous exports.
type ExportLocker interface {
	Acquire(ctx context.Context, profile, exportID string) (bool, error)
	Release(ctx context.Context, profile, exportID string) error
	Held(ctx context.Context, profile string) (bool, error)
}

// ExportHandler serves the preview page and both export paths: synchronous
// download through the session pipeline and queued export through the
// worker.
type ExportHandler struct {
	manager *editor.Manager
	db      *gorm.DB
	queue   Enqueuer
	lock    ExportLocker
	signer  URLSigner
	limiter EnqueueLimiter
	ttl     time.Duration
}

func NewExportHandler(manager *editor.Manager, db *gorm.DB, queue Enqueuer, lock ExportLocker, signer URLSigner, limiter EnqueueLimiter, ttl time.Duration) *ExportHandler {
	return &ExportHandler{
		manager: manager,
		db:      db,
		queue:   queue,
		lock:    lock,
		signer:  signer,
		limiter: limiter,
		ttl:     ttl,
	}
}

// Preview returns the rendered CV as a standalone HTML page.
func (h *ExportHandler) Preview(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	page, err := s.Preview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Download runs the export inline and streams the PDF back.
func (h *ExportHandler) Download(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	art, err := s.Export(c.Request.Context())
	if err != nil {
		if errors.Is(err, export.ErrBusy) {
			Conflict(c, "export already in progress")
			return
		}
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	c.Header("X-Page-Count", strconv.Itoa(art.Pages))
	c.Data(http.StatusOK, "application/pdf", art.Data)
}

type exportStatusResponse struct {
	export.Status
	Queued bool `json:"queued"`
}

// Status reports the session pipeline and whether a queued export holds the
// profile.
func (h *ExportHandler) Status(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	queued, err := h.lock.Held(c.Request.Context(), s.Profile())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exportStatusResponse{Status: s.ExportStatus(), Queued: queued})
}

// Enqueue freezes the session state into an export record and queues it.
// The profile lock taken here is released by the worker.
func (h *ExportHandler) Enqueue(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	profile := s.Profile()
	ctx := c.Request.Context()

	allowed, err := h.limiter.allow(ctx, profile)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		TooManyRequests(c, "too many queued jobs")
		return
	}
	if s.ExportStatus().Busy {
		metrics.ExportRejected()
		Conflict(c, "export already in progress")
		return
	}

	snap, err := s.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		respondError(c, fmt.Errorf("encode snapshot: %w", err))
		return
	}

	exportID := uuid.NewString()
	acquired, err := h.lock.Acquire(ctx, profile, exportID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !acquired {
		metrics.ExportRejected()
		Conflict(c, "export already in progress")
		return
	}

	log := middleware.LoggerFromContext(c).With(slog.String("export_id", exportID))
	correlationID := middleware.GetCorrelationID(c)
	rec := database.ExportRecord{
		PublicID:      exportID,
		Profile:       profile,
		ThemeName:     snap.Theme.Name,
		Snapshot:      datatypes.JSON(raw),
		Status:        database.ExportQueued,
		CorrelationID: correlationID,
	}
	if err := h.db.WithContext(ctx).Create(&rec).Error; err != nil {
		h.release(ctx, log, profile, exportID)
		log.Error("create export record", slog.Any("error", err))
		Internal(c, "failed to create export")
		return
	}

	task, err := tasks.NewCVExportTask(exportID, profile, correlationID)
	if err == nil {
		_, err = h.queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		h.release(ctx, log, profile, exportID)
		_ = database.UpdateExport(ctx, h.db, &rec, map[string]any{
			"status":        database.ExportFailed,
			"error_message": "enqueue failed",
		})
		log.Error("enqueue export", slog.Any("error", err))
		Internal(c, "failed to enqueue export")
		return
	}

	log.Info("export queued", slog.String("theme", rec.ThemeName))
	c.JSON(http.StatusAccepted, gin.H{"id": exportID, "status": rec.Status})
}

func (h *ExportHandler) release(ctx context.Context, log *slog.Logger, profile, exportID string) {
	if err := h.lock.Release(ctx, profile, exportID); err != nil {
		log.Error("release export lock", slog.Any("error", err))
	}
}

type exportResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Theme     string    `json:"theme"`
	Filename  string    `json:"filename,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	Error     string    `json:"error,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get reports a queued export, with a download link once it completed.
func (h *ExportHandler) Get(c *gin.Context) {
	profile, ok := middleware.ProfileFromContext(c)
	if !ok {
		BadRequest(c, "missing profile")
		return
	}
	ctx := c.Request.Context()
	rec, err := database.FindExport(ctx, h.db, c.Param("id"), profile)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := exportResponse{
		ID:        rec.PublicID,
		Status:    rec.Status,
		Progress:  rec.Progress,
		Theme:     rec.ThemeName,
		Filename:  rec.Filename,
		Pages:     rec.Pages,
		Error:     rec.ErrorMessage,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Status == database.ExportCompleted && rec.ObjectKey != "" {
		url, err := h.signer.GeneratePresignedURL(ctx, rec.ObjectKey, rec.Filename, h.ttl)
		if err != nil {
			middleware.LoggerFromContext(c).Error("generate export url", slog.String("objectKey", rec.ObjectKey), slog.Any("error", err))
			Internal(c, "failed to generate url")
			return
		}
		resp.URL = url
	}
	c.JSON(http.StatusOK, resp)
}
