package editor

import (
	"cvcrafter/internal/cv"
	"cvcrafter/internal/export"
	"cvcrafter/internal/layout"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

// Snapshot is a self-contained copy of everything needed to render a CV. It
// travels in export task payloads.
type Snapshot struct {
	Data  cv.Data        `json:"data"`
	Theme theme.Theme    `json:"theme"`
	Order sections.Order `json:"order"`
	Dark  bool           `json:"dark"`
}

// Resolved fixes the snapshot's palette.
func (s Snapshot) Resolved() theme.Resolved {
	return theme.Resolve(s.Theme, s.Dark)
}

// Render lays the snapshot out.
func (s Snapshot) Render() layout.Node {
	return layout.Render(s.Data, s.Resolved(), s.Order)
}

// Document renders the snapshot as a standalone page.
func (s Snapshot) Document(opts layout.DocumentOptions) ([]byte, error) {
	return layout.Document(s.Render(), s.Resolved(), opts)
}

// Target exposes the snapshot to an export pipeline. A snapshot is always
// rendered for print, so the mode switch is a no-op.
func (s Snapshot) Target() export.Target {
	return snapshotTarget{s}
}

type snapshotTarget struct {
	snap Snapshot
}

func (t snapshotTarget) PrintMode() func() { return func() {} }

func (t snapshotTarget) Document() ([]byte, error) {
	return t.snap.Document(layout.DocumentOptions{Print: true})
}
