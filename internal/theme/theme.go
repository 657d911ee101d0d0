package theme

import (
	"errors"

	"cvcrafter/internal/sections"
)

var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrUnknownFont   = errors.New("font is not offered by theme")
	ErrVariantShape  = errors.New("variant does not fit layout shape")
	ErrDuplicate     = errors.New("theme already registered")
)

// Shape is the coarse structural template a theme commits to.
type Shape string

const (
	SingleColumn Shape = "single-column"
	TwoColumn    Shape = "two-column"
	ThreeColumn  Shape = "three-column"
)

// Variant is the visual treatment within a shape. The set is closed.
type Variant string

const (
	Classic  Variant = "classic"
	Sidebar  Variant = "sidebar"
	Banner   Variant = "banner"
	Diagonal Variant = "diagonal"
	TriPanel Variant = "tri-panel"
	Mosaic   Variant = "mosaic"
)

var variantShapes = map[Variant]Shape{
	Classic:  SingleColumn,
	Sidebar:  TwoColumn,
	Banner:   TwoColumn,
	Diagonal: TwoColumn,
	TriPanel: ThreeColumn,
	Mosaic:   ThreeColumn,
}

var shapeDefaults = map[Shape]Variant{
	SingleColumn: Classic,
	TwoColumn:    Sidebar,
	ThreeColumn:  TriPanel,
}

// resolveVariant picks the shape default for an empty variant and rejects
// combinations the renderer has no treatment for.
func resolveVariant(s Shape, v Variant) (Variant, error) {
	if v == "" {
		def, ok := shapeDefaults[s]
		if !ok {
			return "", ErrVariantShape
		}
		return def, nil
	}
	if variantShapes[v] != s {
		return "", ErrVariantShape
	}
	return v, nil
}

// HeaderAlign positions the name block.
type HeaderAlign string

const (
	AlignLeft   HeaderAlign = "left"
	AlignCenter HeaderAlign = "center"
	AlignRight  HeaderAlign = "right"
)

// TitleStyle is the visual style of section headings.
type TitleStyle string

const (
	TitleUnderline TitleStyle = "underline"
	TitleUppercase TitleStyle = "uppercase"
	TitleLight     TitleStyle = "light"
	TitleBar       TitleStyle = "bar"
	TitlePill      TitleStyle = "pill"
)

// ColorSet holds the theme colors. Values are free-form CSS color strings; an
// empty value means the slot is not set.
type ColorSet struct {
	Primary       string `json:"primary,omitempty"`
	Secondary     string `json:"secondary,omitempty"`
	Accent        string `json:"accent,omitempty"`
	Background    string `json:"background,omitempty"`
	Text          string `json:"text,omitempty"`
	TextSecondary string `json:"textSecondary,omitempty"`
	Sidebar       string `json:"sidebar,omitempty"`
	SidebarText   string `json:"sidebarText,omitempty"`
	ColumnAlt     string `json:"columnAlt,omitempty"`
}

// Overlay returns c with every non-empty field of top written over it.
func (c ColorSet) Overlay(top ColorSet) ColorSet {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return ColorSet{
		Primary:       pick(c.Primary, top.Primary),
		Secondary:     pick(c.Secondary, top.Secondary),
		Accent:        pick(c.Accent, top.Accent),
		Background:    pick(c.Background, top.Background),
		Text:          pick(c.Text, top.Text),
		TextSecondary: pick(c.TextSecondary, top.TextSecondary),
		Sidebar:       pick(c.Sidebar, top.Sidebar),
		SidebarText:   pick(c.SidebarText, top.SidebarText),
		ColumnAlt:     pick(c.ColumnAlt, top.ColumnAlt),
	}
}

// Sizing is the global typographic sizing of a theme.
type Sizing struct {
	BaseFontSize float64 `json:"baseFontSize"`
	HeadingScale float64 `json:"headingScale"`
	Spacing      float64 `json:"spacing"`
}

// SizingOverride replaces individual Sizing fields for one section.
type SizingOverride struct {
	BaseFontSize *float64 `json:"baseFontSize,omitempty"`
	HeadingScale *float64 `json:"headingScale,omitempty"`
	Spacing      *float64 `json:"spacing,omitempty"`
}

// Apply returns s with every field set in o replacing the global value.
func (o SizingOverride) Apply(s Sizing) Sizing {
	if o.BaseFontSize != nil {
		s.BaseFontSize = *o.BaseFontSize
	}
	if o.HeadingScale != nil {
		s.HeadingScale = *o.HeadingScale
	}
	if o.Spacing != nil {
		s.Spacing = *o.Spacing
	}
	return s
}

// Slider bounds for sizing edits.
const (
	MinBaseFontSize = 8.0
	MaxBaseFontSize = 14.0
	MinHeadingScale = 0.8
	MaxHeadingScale = 1.8
	MinSpacing      = 0.7
	MaxSpacing      = 1.5
)

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Clamp bounds every field to its slider range.
func (s Sizing) Clamp() Sizing {
	return Sizing{
		BaseFontSize: clamp(s.BaseFontSize, MinBaseFontSize, MaxBaseFontSize),
		HeadingScale: clamp(s.HeadingScale, MinHeadingScale, MaxHeadingScale),
		Spacing:      clamp(s.Spacing, MinSpacing, MaxSpacing),
	}
}

// Clamp bounds every set field to its slider range.
func (o SizingOverride) Clamp() SizingOverride {
	c := func(p *float64, lo, hi float64) *float64 {
		if p == nil {
			return nil
		}
		v := clamp(*p, lo, hi)
		return &v
	}
	return SizingOverride{
		BaseFontSize: c(o.BaseFontSize, MinBaseFontSize, MaxBaseFontSize),
		HeadingScale: c(o.HeadingScale, MinHeadingScale, MaxHeadingScale),
		Spacing:      c(o.Spacing, MinSpacing, MaxSpacing),
	}
}

// Theme is a self-contained visual descriptor. Themes never inherit from one
// another.
type Theme struct {
	Name        string                          `json:"name"`
	Colors      ColorSet                        `json:"colors"`
	DarkColors  *ColorSet                       `json:"darkColors,omitempty"`
	Shape       Shape                           `json:"layout"`
	Variant     Variant                         `json:"variant"`
	HeaderAlign HeaderAlign                     `json:"headerAlignment"`
	TitleStyle  TitleStyle                      `json:"sectionTitleStyle"`
	Rounded     bool                            `json:"rounded,omitempty"`
	Font        string                          `json:"font"`
	Fonts       []string                        `json:"fonts"`
	Sizing      Sizing                          `json:"sizing"`
	Sections    map[sections.Key]SizingOverride `json:"sectionSizing,omitempty"`
}

// Effective resolves the sizing triple for one section: the section override,
// field by field, on top of the global sizing.
func (t Theme) Effective(key sections.Key) Sizing {
	o, ok := t.Sections[key]
	if !ok {
		return t.Sizing
	}
	return o.Apply(t.Sizing)
}

// ResolveColors returns the colors in effect. In dark mode every field set in
// the dark palette replaces the light one; unset fields keep the light value.
func (t Theme) ResolveColors(dark bool) ColorSet {
	if !dark || t.DarkColors == nil {
		return t.Colors
	}
	return t.Colors.Overlay(*t.DarkColors)
}

// Clone returns a deep copy of t.
func (t Theme) Clone() Theme {
	out := t
	if t.DarkColors != nil {
		dc := *t.DarkColors
		out.DarkColors = &dc
	}
	out.Fonts = append([]string(nil), t.Fonts...)
	if t.Sections != nil {
		out.Sections = make(map[sections.Key]SizingOverride, len(t.Sections))
		for k, v := range t.Sections {
			out.Sections[k] = cloneOverride(v)
		}
	}
	return out
}

func cloneOverride(o SizingOverride) SizingOverride {
	dup := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return SizingOverride{
		BaseFontSize: dup(o.BaseFontSize),
		HeadingScale: dup(o.HeadingScale),
		Spacing:      dup(o.Spacing),
	}
}

// Resolved is a theme paired with the colors in effect for one render.
type Resolved struct {
	Theme
	Palette ColorSet
	Dark    bool
}

// Resolve fixes the palette of t for the given color mode.
func Resolve(t Theme, dark bool) Resolved {
	return Resolved{Theme: t, Palette: t.ResolveColors(dark), Dark: dark}
}
