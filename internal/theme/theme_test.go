package theme

import (
	"errors"
	"testing"

	"cvcrafter/internal/sections"
)

func TestResolveColorsLight(t *testing.T) {
	for _, th := range Catalog() {
		if got := th.ResolveColors(false); got != th.Colors {
			t.Fatalf("%s: light colors changed: %+v", th.Name, got)
		}
	}
}

func TestResolveColorsDarkOverlay(t *testing.T) {
	for _, th := range Catalog() {
		if th.DarkColors == nil {
			if got := th.ResolveColors(true); got != th.Colors {
				t.Fatalf("%s: no dark set but colors changed", th.Name)
			}
			continue
		}
		got := th.ResolveColors(true)
		d := *th.DarkColors
		check := func(field, gotV, light, dark string) {
			t.Helper()
			want := light
			if dark != "" {
				want = dark
			}
			if gotV != want {
				t.Fatalf("%s.%s = %q, want %q", th.Name, field, gotV, want)
			}
		}
		check("primary", got.Primary, th.Colors.Primary, d.Primary)
		check("secondary", got.Secondary, th.Colors.Secondary, d.Secondary)
		check("accent", got.Accent, th.Colors.Accent, d.Accent)
		check("background", got.Background, th.Colors.Background, d.Background)
		check("text", got.Text, th.Colors.Text, d.Text)
		check("textSecondary", got.TextSecondary, th.Colors.TextSecondary, d.TextSecondary)
		check("sidebar", got.Sidebar, th.Colors.Sidebar, d.Sidebar)
		check("sidebarText", got.SidebarText, th.Colors.SidebarText, d.SidebarText)
		check("columnAlt", got.ColumnAlt, th.Colors.ColumnAlt, d.ColumnAlt)
	}
}

func TestEffectiveWithoutOverride(t *testing.T) {
	th := Theme{Sizing: Sizing{BaseFontSize: 10, HeadingScale: 1.2, Spacing: 1}}
	for _, key := range sections.All() {
		if got := th.Effective(key); got != th.Sizing {
			t.Fatalf("%s: got %+v want %+v", key, got, th.Sizing)
		}
	}
}

func TestEffectiveSpacingOnlyOverride(t *testing.T) {
	th := Theme{
		Sizing: Sizing{BaseFontSize: 11, HeadingScale: 1.4, Spacing: 1},
		Sections: map[sections.Key]SizingOverride{
			sections.Experience: {Spacing: ptr(0.75)},
		},
	}
	got := th.Effective(sections.Experience)
	want := Sizing{BaseFontSize: 11, HeadingScale: 1.4, Spacing: 0.75}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if other := th.Effective(sections.Education); other != th.Sizing {
		t.Fatalf("education picked up experience override: %+v", other)
	}
}

func TestCatalogRegistersEveryVariant(t *testing.T) {
	r := MustDefault()
	seen := map[Variant]bool{}
	for _, th := range r.List() {
		if variantShapes[th.Variant] != th.Shape {
			t.Fatalf("%s: variant %s does not match shape %s", th.Name, th.Variant, th.Shape)
		}
		seen[th.Variant] = true
	}
	for v := range variantShapes {
		if !seen[v] {
			t.Fatalf("variant %s has no catalog theme", v)
		}
	}
}

func TestRegisterDefaultsAndRejectsVariant(t *testing.T) {
	r, err := NewRegistry(Theme{Name: "plain", Shape: TwoColumn})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, _ := r.Lookup("plain")
	if got.Variant != Sidebar {
		t.Fatalf("variant = %s, want sidebar", got.Variant)
	}

	if _, err := NewRegistry(Theme{Name: "bad", Shape: SingleColumn, Variant: Mosaic}); !errors.Is(err, ErrVariantShape) {
		t.Fatalf("expected ErrVariantShape, got %v", err)
	}
	if _, err := NewRegistry(Theme{Name: "a", Shape: SingleColumn}, Theme{Name: "a", Shape: SingleColumn}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestLookupMiss(t *testing.T) {
	r := MustDefault()
	if _, err := r.Lookup("Nope"); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestUpdateRequiresExistingTheme(t *testing.T) {
	r := MustDefault()
	font := "Inter, sans-serif"
	if _, err := r.Update("Nope", Update{Font: &font}); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if len(r.Names()) != len(Catalog()) {
		t.Fatalf("registry grew on failed update")
	}
}

func TestUpdateTouchesOnlyTarget(t *testing.T) {
	r := MustDefault()
	before, _ := r.Lookup("Classic Elegance")

	colors := ColorSet{Primary: "red", Background: "black"}
	sizing := Sizing{BaseFontSize: 20, HeadingScale: 0.5, Spacing: 1.2}
	updated, err := r.Update("Modern Professional", Update{
		Colors: &colors,
		Sizing: &sizing,
		Sections: map[sections.Key]SizingOverride{
			sections.Summary: {Spacing: ptr(3)},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Colors != colors {
		t.Fatalf("colors = %+v", updated.Colors)
	}
	if want := (Sizing{BaseFontSize: 14, HeadingScale: 0.8, Spacing: 1.2}); updated.Sizing != want {
		t.Fatalf("sizing not clamped: %+v", updated.Sizing)
	}
	if got := updated.Effective(sections.Summary).Spacing; got != MaxSpacing {
		t.Fatalf("override spacing = %v, want %v", got, MaxSpacing)
	}
	if updated.Font != "Inter, sans-serif" || updated.Shape != SingleColumn {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	after, _ := r.Lookup("Classic Elegance")
	if after.Colors != before.Colors || after.Sizing != before.Sizing {
		t.Fatalf("other theme changed")
	}
}

func TestUpdateRejectsUnknownFont(t *testing.T) {
	r := MustDefault()
	font := "Comic Sans MS"
	if _, err := r.Update("Modern Professional", Update{Font: &font}); !errors.Is(err, ErrUnknownFont) {
		t.Fatalf("expected ErrUnknownFont, got %v", err)
	}
}

func TestCloneIsolatesEdits(t *testing.T) {
	base := MustDefault()
	session := base.Clone()
	colors := ColorSet{Primary: "hotpink"}
	if _, err := session.Update("Tri Panel", Update{Colors: &colors}); err != nil {
		t.Fatalf("update: %v", err)
	}
	orig, _ := base.Lookup("Tri Panel")
	if orig.Colors.Primary == "hotpink" {
		t.Fatalf("edit leaked into base registry")
	}
}
