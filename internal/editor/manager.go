// Package editor holds the per-profile editing state and the operations the
// API exposes on it.
package editor

import (
	"context"
	"log/slog"
	"sync"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/export"
	"cvcrafter/internal/prefs"
	"cvcrafter/internal/theme"
)

// Options are the defaults for new sessions.
type Options struct {
	DefaultTheme  string
	PreviewScale  float64
	PhotoMaxBytes int64
	Export        export.Options
}

// Manager owns one Session per profile.
type Manager struct {
	store     *prefs.Store
	capturer  export.Capturer
	assembler export.Assembler
	themes    *theme.Registry
	opts      Options
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager. Every session starts from a clone of themes.
func NewManager(store *prefs.Store, themes *theme.Registry, capturer export.Capturer, assembler export.Assembler, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PreviewScale <= 0 {
		opts.PreviewScale = 1
	}
	if opts.PhotoMaxBytes <= 0 {
		opts.PhotoMaxBytes = cv.DefaultPhotoMaxBytes
	}
	return &Manager{
		store:     store,
		capturer:  capturer,
		assembler: assembler,
		themes:    themes,
		opts:      opts,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Open returns the profile's session, creating it on first use. A new session
// starts with the sample CV, the default theme, the persisted section order
// and the persisted color mode, or systemDark when none is stored.
func (m *Manager) Open(ctx context.Context, profile string, systemDark bool) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[profile]; ok {
		return s
	}

	dark, ok := m.store.LoadDarkMode(ctx, profile)
	if !ok {
		dark = systemDark
	}
	logger := m.logger.With(slog.String("profile", profile))
	s := &Session{
		profile:   profile,
		store:     m.store,
		logger:    logger,
		data:      cv.Default(),
		registry:  m.themes.Clone(),
		themeName: m.opts.DefaultTheme,
		order:     m.store.LoadSectionOrder(ctx, profile),
		dark:      dark,
		scale:     m.opts.PreviewScale,
		photoMax:  m.opts.PhotoMaxBytes,
		pipeline:  export.New(m.capturer, m.assembler, m.opts.Export, logger),
	}
	m.sessions[profile] = s
	logger.Info("editor session opened", slog.Bool("dark", dark))
	return s
}

// Close drops the profile's session.
func (m *Manager) Close(profile string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, profile)
}
