package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvcrafter/internal/editor"
	"cvcrafter/internal/sections"
)

// PreferencesHandler serves the persisted per-profile settings: section order
// and color mode.
type PreferencesHandler struct {
	manager *editor.Manager
}

func NewPreferencesHandler(manager *editor.Manager) *PreferencesHandler {
	return &PreferencesHandler{manager: manager}
}

func (h *PreferencesHandler) GetOrder(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": s.Order()})
}

type reorderRequest struct {
	Dragged sections.Key `json:"dragged" binding:"required"`
	Target  sections.Key `json:"target" binding:"required"`
}

// Reorder applies one drag-and-drop move. Moves involving fixed or unknown
// sections leave the order as it was.
func (h *PreferencesHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": s.Reorder(c.Request.Context(), req.Dragged, req.Target)})
}

type darkModeRequest struct {
	Dark *bool `json:"dark" binding:"required"`
}

func (h *PreferencesHandler) GetDarkMode(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"dark": s.DarkMode()})
}

func (h *PreferencesHandler) SetDarkMode(c *gin.Context) {
	var req darkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	s.SetDarkMode(c.Request.Context(), *req.Dark)
	c.JSON(http.StatusOK, gin.H{"dark": s.DarkMode()})
}

func (h *PreferencesHandler) ToggleDarkMode(c *gin.Context) {
	s, ok := openSession(c, h.manager)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"dark": s.ToggleDarkMode(c.Request.Context())})
}
