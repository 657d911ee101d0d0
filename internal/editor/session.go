package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/export"
	"cvcrafter/internal/layout"
	"cvcrafter/internal/prefs"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

// Session is one profile's editing state. All operations are serialized.
type Session struct {
	profile  string
	store    *prefs.Store
	logger   *slog.Logger
	pipeline *export.Pipeline
	scale    float64
	photoMax int64

	mu        sync.Mutex
	data      cv.Data
	registry  *theme.Registry
	themeName string
	order     sections.Order
	dark      bool
	print     bool
}

func (s *Session) Profile() string { return s.profile }

// Data returns a copy of the CV.
func (s *Session) Data() cv.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *Session) ReplaceData(d cv.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d.Clone()
}

// PatchData merges a partial JSON document into the CV.
func (s *Session) PatchData(raw []byte) (cv.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.data.Patch(raw); err != nil {
		return cv.Data{}, err
	}
	return s.data.Clone(), nil
}

func (s *Session) AddItem(list cv.List, raw []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AddItem(list, raw)
}

func (s *Session) UpdateItem(list cv.List, id string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateItem(list, id, raw)
}

func (s *Session) RemoveItem(list cv.List, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.RemoveItem(list, id)
}

// SetPhoto replaces the photo with the image read from r.
func (s *Session) SetPhoto(r io.Reader) error {
	uri, err := cv.EncodePhoto(r, s.photoMax)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Personal.Photo = uri
	return nil
}

// ClearPhoto removes the photo.
func (s *Session) ClearPhoto() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Personal.Photo = ""
}

// Themes lists the session's themes in catalog order.
func (s *Session) Themes() []theme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List()
}

// Theme returns a named theme of this session.
func (s *Session) Theme(name string) (theme.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Lookup(name)
}

// SelectedTheme is the name of the active theme.
func (s *Session) SelectedTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themeName
}

func (s *Session) SelectTheme(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	s.themeName = name
	return nil
}

// UpdateTheme edits one theme in this session's registry only.
func (s *Session) UpdateTheme(name string, u theme.Update) (theme.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Update(name, u)
}

func (s *Session) Order() sections.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(sections.Order(nil), s.order...)
}

// Reorder moves dragged to target's position and persists the new order.
func (s *Session) Reorder(ctx context.Context, dragged, target sections.Key) sections.Order {
	s.mu.Lock()
	next := sections.Reorder(s.order, dragged, target)
	changed := !next.Equal(s.order)
	s.order = next
	s.mu.Unlock()

	if changed {
		s.store.SaveSectionOrder(ctx, s.profile, next)
	}
	return append(sections.Order(nil), next...)
}

func (s *Session) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

func (s *Session) SetDarkMode(ctx context.Context, dark bool) {
	s.mu.Lock()
	s.dark = dark
	s.mu.Unlock()
	s.store.SaveDarkMode(ctx, s.profile, dark)
}

// ToggleDarkMode flips and persists the color mode and returns the new one.
func (s *Session) ToggleDarkMode(ctx context.Context) bool {
	s.mu.Lock()
	s.dark = !s.dark
	dark := s.dark
	s.mu.Unlock()
	s.store.SaveDarkMode(ctx, s.profile, dark)
	return dark
}

// Snapshot copies the current state. The result shares nothing with the
// session.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() (Snapshot, error) {
	th, err := s.registry.Lookup(s.themeName)
	if err != nil {
		return Snapshot{}, fmt.Errorf("selected theme %q: %w", s.themeName, err)
	}
	return Snapshot{
		Data:  s.data.Clone(),
		Theme: th,
		Order: append(sections.Order(nil), s.order...),
		Dark:  s.dark,
	}, nil
}

// Render returns the document tree, or the placeholder when the selected
// theme cannot be found.
func (s *Session) Render() layout.Node {
	snap, err := s.Snapshot()
	if err != nil {
		s.logger.Error("render without theme", slog.Any("error", err))
		return layout.Placeholder(err.Error())
	}
	return snap.Render()
}

// Preview returns the standalone HTML page. While an export holds the
// session in print mode the page is unscaled.
func (s *Session) Preview() ([]byte, error) {
	s.mu.Lock()
	snap, err := s.snapshotLocked()
	opts := layout.DocumentOptions{Scale: s.scale, Print: s.print}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("preview without theme", slog.Any("error", err))
		return layout.Document(layout.Placeholder(err.Error()), theme.Resolved{}, opts)
	}
	return snap.Document(opts)
}

// Export runs the session's pipeline over the current state. It fails
// without capturing anything when the selected theme cannot be found.
func (s *Session) Export(ctx context.Context) (export.Artifact, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return export.Artifact{}, fmt.Errorf("export: %w", err)
	}
	return s.pipeline.Export(ctx, sessionTarget{s}, snap.Data.Personal.Name)
}

func (s *Session) ExportStatus() export.Status {
	return s.pipeline.Status()
}

// OnExportStatus forwards pipeline transitions to o.
func (s *Session) OnExportStatus(o export.Observer) {
	s.pipeline.OnStatus(o)
}

type sessionTarget struct {
	s *Session
}

func (t sessionTarget) PrintMode() func() {
	t.s.mu.Lock()
	prev := t.s.print
	t.s.print = true
	t.s.mu.Unlock()
	return func() {
		t.s.mu.Lock()
		t.s.print = prev
		t.s.mu.Unlock()
	}
}

func (t sessionTarget) Document() ([]byte, error) {
	return t.s.Preview()
}
