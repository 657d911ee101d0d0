package theme

import (
	"fmt"
	"slices"

	"cvcrafter/internal/sections"
)

// Registry is a keyed collection of themes. Names keep registration order for
// listing.
type Registry struct {
	names  []string
	themes map[string]Theme
}

// NewRegistry registers every theme in order.
func NewRegistry(themes ...Theme) (*Registry, error) {
	r := &Registry{themes: make(map[string]Theme, len(themes))}
	for _, t := range themes {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustDefault returns a registry holding the built-in catalog.
func MustDefault() *Registry {
	r, err := NewRegistry(Catalog()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds t, fixing its visual variant once.
func (r *Registry) Register(t Theme) error {
	if _, ok := r.themes[t.Name]; ok {
		return fmt.Errorf("register %q: %w", t.Name, ErrDuplicate)
	}
	v, err := resolveVariant(t.Shape, t.Variant)
	if err != nil {
		return fmt.Errorf("register %q (%s/%s): %w", t.Name, t.Shape, t.Variant, err)
	}
	t.Variant = v
	r.names = append(r.names, t.Name)
	r.themes[t.Name] = t.Clone()
	return nil
}

// Lookup returns a copy of the named theme.
func (r *Registry) Lookup(name string) (Theme, error) {
	t, ok := r.themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("lookup %q: %w", name, ErrThemeNotFound)
	}
	return t.Clone(), nil
}

// List returns copies of all themes in registration order.
func (r *Registry) List() []Theme {
	out := make([]Theme, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.themes[name].Clone())
	}
	return out
}

// Names returns the registered theme names in order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Clone returns an independent registry; edits on either side stay local.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		names:  slices.Clone(r.names),
		themes: make(map[string]Theme, len(r.themes)),
	}
	for name, t := range r.themes {
		out.themes[name] = t.Clone()
	}
	return out
}

// Update is a partial edit of a theme's colors, font and sizing. Nil fields
// are left untouched.
type Update struct {
	Colors     *ColorSet                       `json:"colors,omitempty"`
	DarkColors *ColorSet                       `json:"darkColors,omitempty"`
	Font       *string                         `json:"font,omitempty"`
	Sizing     *Sizing                         `json:"sizing,omitempty"`
	Sections   map[sections.Key]SizingOverride `json:"sectionSizing,omitempty"`
}

// Update replaces the supplied fields of an existing theme and returns the
// stored result. Colors are replaced as whole sets; section overrides are
// replaced per key.
func (r *Registry) Update(name string, u Update) (Theme, error) {
	t, ok := r.themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("update %q: %w", name, ErrThemeNotFound)
	}
	t = t.Clone()

	if u.Font != nil {
		if !slices.Contains(t.Fonts, *u.Font) {
			return Theme{}, fmt.Errorf("update %q font %q: %w", name, *u.Font, ErrUnknownFont)
		}
		t.Font = *u.Font
	}
	for key := range u.Sections {
		if !sections.Known(key) {
			return Theme{}, fmt.Errorf("update %q: unknown section %q", name, key)
		}
	}
	if u.Colors != nil {
		t.Colors = *u.Colors
	}
	if u.DarkColors != nil {
		dc := *u.DarkColors
		t.DarkColors = &dc
	}
	if u.Sizing != nil {
		t.Sizing = u.Sizing.Clamp()
	}
	if len(u.Sections) > 0 && t.Sections == nil {
		t.Sections = make(map[sections.Key]SizingOverride, len(u.Sections))
	}
	for key, o := range u.Sections {
		t.Sections[key] = o.Clamp()
	}

	r.themes[name] = t
	return t.Clone(), nil
}
