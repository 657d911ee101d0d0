package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrExportNotFound = errors.New("export not found")

// FindExport loads an export by public id. A non-empty profile restricts the
// lookup to that profile's exports.
func FindExport(ctx context.Context, db *gorm.DB, publicID, profile string) (*ExportRecord, error) {
	q := db.WithContext(ctx).Where("public_id = ?", publicID)
	if profile != "" {
		q = q.Where("profile = ?", profile)
	}
	var rec ExportRecord
	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("query export %q: %w", publicID, err)
	}
	return &rec, nil
}

// UpdateExport applies column updates to an export.
func UpdateExport(ctx context.Context, db *gorm.DB, rec *ExportRecord, updates map[string]any) error {
	if err := db.WithContext(ctx).Model(rec).Updates(updates).Error; err != nil {
		return fmt.Errorf("update export %q: %w", rec.PublicID, err)
	}
	return nil
}

// SaveThemePreview upserts the thumbnail location of a theme.
func SaveThemePreview(ctx context.Context, db *gorm.DB, themeName string, dark bool, objectKey string) error {
	rec := ThemePreview{ThemeName: themeName, Dark: dark, ObjectKey: objectKey}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "theme_name"}, {Name: "dark"}},
		DoUpdates: clause.AssignmentColumns([]string{"object_key", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save preview of %q: %w", themeName, err)
	}
	return nil
}

// FindThemePreview returns the stored thumbnail key of a theme.
func FindThemePreview(ctx context.Context, db *gorm.DB, themeName string, dark bool) (string, bool, error) {
	var rec ThemePreview
	err := db.WithContext(ctx).Where("theme_name = ? AND dark = ?", themeName, dark).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query preview of %q: %w", themeName, err)
	}
	return rec.ObjectKey, true, nil
}

// ListExportsBefore returns up to limit exports last touched before cutoff,
// oldest first.
func ListExportsBefore(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) ([]ExportRecord, error) {
	var recs []ExportRecord
	err := db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Order("updated_at asc").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list exports before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return recs, nil
}

// DeleteExport removes an export row for good.
func DeleteExport(ctx context.Context, db *gorm.DB, rec *ExportRecord) error {
	if err := db.WithContext(ctx).Unscoped().Delete(rec).Error; err != nil {
		return fmt.Errorf("delete export %q: %w", rec.PublicID, err)
	}
	return nil
}
