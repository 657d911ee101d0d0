package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types shared by the API (producer) and the worker (consumer).
const (
	TypeCVExport     = "cv:export"
	TypeThemePreview = "theme:preview"
)

// CVExportPayload points at an export record whose snapshot is rendered.
type CVExportPayload struct {
	ExportID      string `json:"export_id"`
	Profile       string `json:"profile"`
	CorrelationID string `json:"correlation_id"`
}

// ThemePreviewPayload names the catalog theme to thumbnail.
type ThemePreviewPayload struct {
	ThemeName     string `json:"theme_name"`
	Dark          bool   `json:"dark"`
	CorrelationID string `json:"correlation_id"`
}

// NewCVExportTask builds an export task. Exports are never retried: the
// profile's busy lock is released when the single attempt ends.
func NewCVExportTask(exportID, profile, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CVExportPayload{
		ExportID:      exportID,
		Profile:       profile,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCVExport, payload, asynq.MaxRetry(0)), nil
}

// NewThemePreviewTask builds a thumbnail task.
func NewThemePreviewTask(themeName string, dark bool, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ThemePreviewPayload{
		ThemeName:     themeName,
		Dark:          dark,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeThemePreview, payload, asynq.MaxRetry(2)), nil
}
