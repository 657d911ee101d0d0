package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Export statuses.
const (
	ExportQueued    = "queued"
	ExportRunning   = "running"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// ExportRecord tracks one asynchronous export. Snapshot holds the frozen
// render input so the worker never reads live editor state.
type ExportRecord struct {
	gorm.Model
	PublicID      string         `gorm:"uniqueIndex;size:36"`
	Profile       string         `gorm:"index;size:128"`
	ThemeName     string         `gorm:"size:128"`
	Snapshot      datatypes.JSON `gorm:"type:jsonb"`
	Status        string         `gorm:"size:32"`
	Progress      int
	Filename      string `gorm:"size:255"`
	Pages         int
	ObjectKey     string `gorm:"size:512"`
	ErrorMessage  string `gorm:"size:1024"`
	CorrelationID string `gorm:"size:64"`
}

// ThemePreview records the stored thumbnail of a catalog theme.
type ThemePreview struct {
	gorm.Model
	ThemeName string `gorm:"uniqueIndex:idx_theme_preview;size:128"`
	Dark      bool   `gorm:"uniqueIndex:idx_theme_preview"`
	ObjectKey string `gorm:"size:512"`
}
