package api

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/database"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/tasks"
	"cvcrafter/internal/theme"
)

// Enqueuer is the subset of *asynq.Client used by handlers.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// URLSigner creates download links for stored objects.
type URLSigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey, filename string, ttl time.Duration) (string, error)
}

// ThemeHandler serves the theme catalog of a session and catalog thumbnails.
type ThemeHandler struct {
	manager *editor.Manager
	catalog *theme.Registry
	db      *gorm.DB
	queue   Enqueuer
	signer  URLSigner
	limiter EnqueueLimiter
	ttl     time.Duration
}

func NewThemeHandler(manager *editor.Manager, catalog *theme.Registry, db *gorm.DB, queue Enqueuer, signer URLSigner, limiter EnqueueLimiter, ttl time.Duration) *ThemeHandler {
	return &ThemeHandler{
		manager: manager,
		catalog: catalog,
		db:      db,
		queue:   queue,
		signer:  signer,
		limiter: limiter,
		ttl:     ttl,
	}
}

type themeListResponse struct {
	Selected string        `json:"selected"`
	Themes   []theme.Theme `json:"themes"`
}

func (h *ThemeHandler) List(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, themeListResponse{Selected: s.SelectedTheme(), Themes: s.Themes()})
}

func (h *ThemeHandler) Get(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	t, err := s.Theme(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update edits colors, font and sizing of one of the session's themes.
func (h *ThemeHandler) Update(c *gin.Context) {
	var req theme.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	t, err := s.UpdateTheme(c.Param("name"), req)
	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			err = withStatus(http.StatusBadRequest, err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ThemeHandler) Select(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	if err := s.SelectTheme(c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": s.SelectedTheme()})
}

func darkQuery(c *gin.Context) (bool, bool) {
	raw := c.Query("dark")
	if raw == "" {
		return false, true
	}
	dark, err := strconv.ParseBool(raw)
	return dark, err == nil
}

// EnqueuePreview queues a thumbnail render of a catalog theme.
func (h *ThemeHandler) EnqueuePreview(c *gin.Context) {
	name := c.Param("name")
	if _, err := h.catalog.Lookup(name); err != nil {
		respondError(c, err)
		return
	}
	dark, ok := darkQuery(c)
	if !ok {
		BadRequest(c, "invalid dark flag")
		return
	}

	profile, _ := middleware.ProfileFromContext(c)
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

	task, err := tasks.NewThemePreviewTask(name, dark, middleware.GetCorrelationID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	info, err := h.queue.EnqueueContext(ctx, task)
	if err != nil {
		middleware.LoggerFromContext(c).Error("enqueue theme preview", slog.String("theme", name), slog.Any("error", err))
		Internal(c, "failed to enqueue preview")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": info.ID, "theme": name, "dark": dark})
}

// PreviewURL returns a short-lived link to a rendered thumbnail.
func (h *ThemeHandler) PreviewURL(c *gin.Context) {
	name := c.Param("name")
	dark, ok := darkQuery(c)
	if !ok {
		BadRequest(c, "invalid dark flag")
		return
	}
	ctx := c.Request.Context()
	key, found, err := database.FindThemePreview(ctx, h.db, name, dark)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		NotFound(c, "preview not rendered")
		return
	}
	url, err := h.signer.GeneratePresignedURL(ctx, key, path.Base(key), h.ttl)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate preview url", slog.String("objectKey", key), slog.Any("error", err))
		Internal(c, "failed to generate url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(h.ttl.Seconds())})
}
