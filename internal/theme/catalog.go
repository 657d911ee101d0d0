package theme

import "cvcrafter/internal/sections"

var (
	sansFonts  = []string{"Inter, sans-serif", "Source Sans 3, sans-serif", "Roboto, sans-serif"}
	serifFonts = []string{"Lora, serif", "Merriweather, serif", "Playfair Display, serif"}
	monoFonts  = []string{"JetBrains Mono, monospace", "IBM Plex Mono, monospace", "Inter, sans-serif"}
)

func ptr(v float64) *float64 { return &v }

// Catalog returns the built-in themes in display order. Every call returns
// fresh values.
func Catalog() []Theme {
	return []Theme{
		{
			Name: "Modern Professional",
			Colors: ColorSet{
				Primary:       "#111827",
				Secondary:     "#2563eb",
				Accent:        "#2563eb",
				Background:    "#ffffff",
				Text:          "#374151",
				TextSecondary: "#6b7280",
			},
			DarkColors: &ColorSet{
				Primary:       "#f9fafb",
				Background:    "#111827",
				Text:          "#d1d5db",
				TextSecondary: "#9ca3af",
			},
			Shape:       SingleColumn,
			HeaderAlign: AlignLeft,
			TitleStyle:  TitleUnderline,
			Font:        sansFonts[0],
			Fonts:       sansFonts,
			Sizing:      Sizing{BaseFontSize: 10, HeadingScale: 1.2, Spacing: 1},
		},
		{
			Name: "Classic Elegance",
			Colors: ColorSet{
				Primary:       "#1f2937",
				Secondary:     "#4b5563",
				Accent:        "#1f2937",
				Background:    "#ffffff",
				Text:          "#374151",
				TextSecondary: "#6b7280",
			},
			DarkColors: &ColorSet{
				Primary:    "#f3f4f6",
				Secondary:  "#d1d5db",
				Accent:     "#e5e7eb",
				Background: "#1f2937",
				Text:       "#e5e7eb",
			},
			Shape:       SingleColumn,
			HeaderAlign: AlignCenter,
			TitleStyle:  TitleUppercase,
			Font:        serifFonts[0],
			Fonts:       serifFonts,
			Sizing:      Sizing{BaseFontSize: 10.5, HeadingScale: 1.1, Spacing: 1.1},
			Sections: map[sections.Key]SizingOverride{
				sections.Header: {HeadingScale: ptr(1.3)},
			},
		},
		{
			Name: "Creative Tech",
			Colors: ColorSet{
				Primary:       "#111827",
				Secondary:     "#14b8a6",
				Accent:        "#14b8a6",
				Background:    "#f9fafb",
				Text:          "#1f2937",
				TextSecondary: "#6b7280",
			},
			Shape:       SingleColumn,
			HeaderAlign: AlignLeft,
			TitleStyle:  TitleLight,
			Rounded:     true,
			Font:        "Source Sans 3, sans-serif",
			Fonts:       sansFonts,
			Sizing:      Sizing{BaseFontSize: 10, HeadingScale: 1.3, Spacing: 1},
			Sections: map[sections.Key]SizingOverride{
				sections.Skills: {Spacing: ptr(0.8)},
			},
		},
		{
			Name: "Executive Sidebar",
			Colors: ColorSet{
				Primary:       "#0f172a",
				Secondary:     "#0369a1",
				Accent:        "#0369a1",
				Background:    "#ffffff",
				Text:          "#334155",
				TextSecondary: "#64748b",
				Sidebar:       "#0f172a",
				SidebarText:   "#e2e8f0",
			},
			DarkColors: &ColorSet{
				Primary:    "#f8fafc",
				Background: "#0b1220",
				Text:       "#cbd5e1",
				Sidebar:    "#1e293b",
			},
			Shape:       TwoColumn,
			Variant:     Sidebar,
			HeaderAlign: AlignLeft,
			TitleStyle:  TitleBar,
			Font:        sansFonts[0],
			Fonts:       sansFonts,
			Sizing:      Sizing{BaseFontSize: 9.5, HeadingScale: 1.2, Spacing: 1},
			Sections: map[sections.Key]SizingOverride{
				sections.Sidebar: {BaseFontSize: ptr(9)},
			},
		},
		{
			Name: "Bold Banner",
			Colors: ColorSet{
				Primary:       "#1e1b4b",
				Secondary:     "#7c3aed",
				Accent:        "#7c3aed",
				Background:    "#ffffff",
				Text:          "#3f3f46",
				TextSecondary: "#71717a",
				Sidebar:       "#f5f3ff",
				SidebarText:   "#3f3f46",
			},
			Shape:       TwoColumn,
			Variant:     Banner,
			HeaderAlign: AlignCenter,
			TitleStyle:  TitlePill,
			Rounded:     true,
			Font:        sansFonts[2],
			Fonts:       sansFonts,
			Sizing:      Sizing{BaseFontSize: 10, HeadingScale: 1.25, Spacing: 1.05},
		},
		{
			Name: "Diagonal Edge",
			Colors: ColorSet{
				Primary:       "#18181b",
				Secondary:     "#ea580c",
				Accent:        "#ea580c",
				Background:    "#ffffff",
				Text:          "#27272a",
				TextSecondary: "#71717a",
				Sidebar:       "#fff7ed",
				SidebarText:   "#431407",
			},
			DarkColors: &ColorSet{
				Primary:     "#fafafa",
				Background:  "#18181b",
				Text:        "#e4e4e7",
				Sidebar:     "#27272a",
				SidebarText: "#fed7aa",
			},
			Shape:       TwoColumn,
			Variant:     Diagonal,
			HeaderAlign: AlignRight,
			TitleStyle:  TitleUnderline,
			Font:        serifFonts[2],
			Fonts:       serifFonts,
			Sizing:      Sizing{BaseFontSize: 10, HeadingScale: 1.35, Spacing: 0.95},
		},
		{
			Name: "Tri Panel",
			Colors: ColorSet{
				Primary:       "#052e16",
				Secondary:     "#15803d",
				Accent:        "#16a34a",
				Background:    "#ffffff",
				Text:          "#1c1917",
				TextSecondary: "#57534e",
				Sidebar:       "#f0fdf4",
				SidebarText:   "#14532d",
				ColumnAlt:     "#fafaf9",
			},
			Shape:       ThreeColumn,
			Variant:     TriPanel,
			HeaderAlign: AlignCenter,
			TitleStyle:  TitleUppercase,
			Font:        sansFonts[1],
			Fonts:       sansFonts,
			Sizing:      Sizing{BaseFontSize: 9, HeadingScale: 1.15, Spacing: 0.9},
			Sections: map[sections.Key]SizingOverride{
				sections.Sidebar:   {BaseFontSize: ptr(8.5), Spacing: ptr(0.8)},
				sections.Interests: {Spacing: ptr(0.75)},
			},
		},
		{
			Name: "Mosaic Terminal",
			Colors: ColorSet{
				Primary:       "#0f172a",
				Secondary:     "#0891b2",
				Accent:        "#06b6d4",
				Background:    "#ffffff",
				Text:          "#1e293b",
				TextSecondary: "#64748b",
				Sidebar:       "#0f172a",
				SidebarText:   "#a5f3fc",
				ColumnAlt:     "#ecfeff",
			},
			DarkColors: &ColorSet{
				Background: "#020617",
				Primary:    "#e2e8f0",
				Text:       "#cbd5e1",
				ColumnAlt:  "#083344",
			},
			Shape:       ThreeColumn,
			Variant:     Mosaic,
			HeaderAlign: AlignLeft,
			TitleStyle:  TitleBar,
			Rounded:     true,
			Font:        monoFonts[0],
			Fonts:       monoFonts,
			Sizing:      Sizing{BaseFontSize: 9, HeadingScale: 1.2, Spacing: 0.9},
		},
	}
}
