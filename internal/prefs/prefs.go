// Package prefs persists per-profile editor preferences behind a small
// key-value boundary.
package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"cvcrafter/internal/sections"
)

const (
	darkValue  = "dark"
	lightValue = "light"
)

// KV is the storage boundary.
type KV interface {
	// Get reports ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SectionOrderKey is where a profile's order is stored.
func SectionOrderKey(profile string) string {
	return fmt.Sprintf("cv:%s:sectionOrder", profile)
}

// ThemeModeKey is where a profile's color mode is stored.
func ThemeModeKey(profile string) string {
	return fmt.Sprintf("cv:%s:theme", profile)
}

// Store reads and writes preferences. Reads never fail: storage errors and
// malformed values fall back to defaults. Write errors are logged and
// swallowed.
type Store struct {
	kv     KV
	logger *slog.Logger
}

func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// LoadSectionOrder returns the stored order, or the default order when
// nothing valid is stored.
func (s *Store) LoadSectionOrder(ctx context.Context, profile string) sections.Order {
	raw, ok, err := s.kv.Get(ctx, SectionOrderKey(profile))
	if err != nil {
		s.logger.Warn("load section order failed, using default",
			slog.String("profile", profile),
			slog.Any("error", err),
		)
		return sections.Default()
	}
	if !ok {
		return sections.Default()
	}
	return sections.Parse(raw)
}

func (s *Store) SaveSectionOrder(ctx context.Context, profile string, order sections.Order) {
	if err := s.kv.Set(ctx, SectionOrderKey(profile), sections.Encode(order)); err != nil {
		s.logger.Error("save section order failed",
			slog.String("profile", profile),
			slog.Any("error", err),
		)
	}
}

// LoadDarkMode reports ok=false when no valid preference is stored, so the
// caller can fall back to the system preference.
func (s *Store) LoadDarkMode(ctx context.Context, profile string) (dark, ok bool) {
	raw, found, err := s.kv.Get(ctx, ThemeModeKey(profile))
	if err != nil {
		s.logger.Warn("load color mode failed",
			slog.String("profile", profile),
			slog.Any("error", err),
		)
		return false, false
	}
	if !found {
		return false, false
	}
	switch raw {
	case darkValue:
		return true, true
	case lightValue:
		return false, true
	default:
		return false, false
	}
}

func (s *Store) SaveDarkMode(ctx context.Context, profile string, dark bool) {
	v := lightValue
	if dark {
		v = darkValue
	}
	if err := s.kv.Set(ctx, ThemeModeKey(profile), v); err != nil {
		s.logger.Error("save color mode failed",
			slog.String("profile", profile),
			slog.Any("error", err),
		)
	}
}
