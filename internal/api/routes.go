package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/theme"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Manager        *editor.Manager
	Catalog        *theme.Registry
	DB             *gorm.DB
	Queue          Enqueuer
	Lock           ExportLocker
	Signer         URLSigner
	Scanner        Scanner
	Limiter        EnqueueLimiter
	PresignTTL     time.Duration
	Redis          *redis.Client
	AllowedOrigins []string
	Logger         *slog.Logger
}

// RegisterRoutes mounts the versioned API under /v1.
func RegisterRoutes(router *gin.Engine, d Deps) {
	themeHandler := NewThemeHandler(d.Manager, d.Catalog, d.DB, d.Queue, d.Signer, d.Limiter, d.PresignTTL)
	cvHandler := NewCVHandler(d.Manager, d.Scanner)
	prefsHandler := NewPreferencesHandler(d.Manager)
	exportHandler := NewExportHandler(d.Manager, d.DB, d.Queue, d.Lock, d.Signer, d.Limiter, d.PresignTTL)

	v1 := router.Group("/v1")
	if d.Redis != nil {
		// Browsers cannot set headers on a websocket handshake.
		v1.GET("/ws", NewWsHandler(d.Redis, d.Logger, d.AllowedOrigins).HandleConnection)
	}

	profiled := v1.Group("")
	profiled.Use(middleware.ProfileMiddleware())

	themes := profiled.Group("/themes")
	{
		themes.GET("", themeHandler.List)
		themes.GET("/:name", themeHandler.Get)
		themes.PATCH("/:name", themeHandler.Update)
		themes.POST("/:name/select", themeHandler.Select)
		themes.POST("/:name/preview", themeHandler.EnqueuePreview)
		themes.GET("/:name/preview", themeHandler.PreviewURL)
	}

	cvGroup := profiled.Group("/cv")
	{
		cvGroup.GET("", cvHandler.Get)
		cvGroup.PUT("", cvHandler.Replace)
		cvGroup.PATCH("", cvHandler.Patch)
		cvGroup.POST("/photo", cvHandler.UploadPhoto)
		cvGroup.DELETE("/photo", cvHandler.DeletePhoto)
		cvGroup.POST("/:list", cvHandler.AddItem)
		cvGroup.PUT("/:list/:id", cvHandler.UpdateItem)
		cvGroup.DELETE("/:list/:id", cvHandler.RemoveItem)
	}

	profiled.GET("/sections/order", prefsHandler.GetOrder)
	profiled.POST("/sections/reorder", prefsHandler.Reorder)

	prefs := profiled.Group("/preferences")
	{
		prefs.GET("/dark-mode", prefsHandler.GetDarkMode)
		prefs.PUT("/dark-mode", prefsHandler.SetDarkMode)
		prefs.POST("/dark-mode/toggle", prefsHandler.ToggleDarkMode)
	}

	profiled.GET("/preview", exportHandler.Preview)

	exports := profiled.Group("/export")
	{
		exports.POST("", exportHandler.Enqueue)
		exports.POST("/download", exportHandler.Download)
		exports.GET("/status", exportHandler.Status)
		exports.GET("/:id", exportHandler.Get)
	}
}
