package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/cv"
	"cvcrafter/internal/database"
	"cvcrafter/internal/export"
	"cvcrafter/internal/theme"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string)      { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)        { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)        { Error(c, http.StatusConflict, msg) }
func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }
func Internal(c *gin.Context, msg string)        { Error(c, http.StatusInternalServerError, msg) }

// statusError pins an HTTP status to an error the domain packages do not
// classify themselves.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func withStatus(status int, err error) error {
	return &statusError{status: status, err: err}
}

func statusOf(err error) int {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return se.status
	case errors.Is(err, theme.ErrThemeNotFound),
		errors.Is(err, cv.ErrUnknownList),
		errors.Is(err, cv.ErrItemNotFound),
		errors.Is(err, database.ErrExportNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrBusy),
		errors.Is(err, cv.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, cv.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, theme.ErrUnknownFont),
		errors.Is(err, cv.ErrNotImage),
		errors.Is(err, cv.ErrEmptyPhoto):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Server errors are logged
// and their detail withheld from the client.
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	Error(c, status, err.Error())
}
