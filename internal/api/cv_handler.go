package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/cv"
	"cvcrafter/internal/editor"
)

// CVHandler edits the CV content of a session.
type CVHandler struct {
	manager *editor.Manager
	scanner Scanner
}

// NewCVHandler returns a handler. A nil scanner accepts photos unscanned.
func NewCVHandler(manager *editor.Manager, scanner Scanner) *CVHandler {
	return &CVHandler{manager: manager, scanner: scanner}
}

func (h *CVHandler) Get(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Data())
}

// Replace swaps the whole CV.
func (h *CVHandler) Replace(c *gin.Context) {
	var req cv.Data
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	s.ReplaceData(req)
	c.JSON(http.StatusOK, s.Data())
}

// Patch merges a partial CV document.
func (h *CVHandler) Patch(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	data, err := s.PatchData(raw)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *CVHandler) AddItem(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	id, err := s.AddItem(cv.List(c.Param("list")), raw)
	if err != nil {
		respondItemError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CVHandler) UpdateItem(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	if err := s.UpdateItem(cv.List(c.Param("list")), c.Param("id"), raw); err != nil {
		respondItemError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CVHandler) RemoveItem(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	if err := s.RemoveItem(cv.List(c.Param("list")), c.Param("id")); err != nil {
		respondItemError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto scans the multipart "file" field, when a scanner is set, and
// stores it as the CV photo.
func (h *CVHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}

	if h.scanner != nil {
		reader, err := file.Open()
		if err != nil {
			Internal(c, "failed to open file")
			return
		}
		err = h.scanner.Scan(reader)
		reader.Close()
		if errors.Is(err, ErrInfected) {
			BadRequest(c, "malicious file detected")
			return
		}
		if err != nil {
			middleware.LoggerFromContext(c).Error("scan photo", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer reader.Close()

	if err := s.SetPhoto(reader); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": s.Data().Personal.Photo})
}

func (h *CVHandler) DeletePhoto(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	s.ClearPhoto()
	c.Status(http.StatusNoContent)
}

func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, "failed to read body")
		return nil, false
	}
	if len(raw) == 0 {
		BadRequest(c, "empty body")
		return nil, false
	}
	return raw, true
}

// respondItemError maps list edits. Decode failures carry no sentinel and are
// reported as bad requests.
func respondItemError(c *gin.Context, err error) {
	if statusOf(err) == http.StatusInternalServerError {
		err = withStatus(http.StatusBadRequest, err)
	}
	respondError(c, err)
}
