package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

func catalogTheme(t *testing.T, name string) theme.Theme {
	t.Helper()
	th, err := theme.MustDefault().Lookup(name)
	if err != nil {
		t.Fatalf("lookup %q: %v", name, err)
	}
	return th
}

func sectionRoles(n Node) []string {
	var out []string
	for _, s := range n.FindPrefix("section:") {
		out = append(out, strings.TrimPrefix(s.Role, "section:"))
	}
	return out
}

func findOne(t *testing.T, n Node, role string) Node {
	t.Helper()
	found := n.Find(role)
	if len(found) != 1 {
		t.Fatalf("expected exactly one %q node, got %d", role, len(found))
	}
	return found[0]
}

func TestRenderIsDeterministic(t *testing.T) {
	data := cv.Default()
	for _, th := range theme.Catalog() {
		for _, dark := range []bool{false, true} {
			resolved := theme.Resolve(th, dark)
			first := Render(data, resolved, sections.Default())
			second := Render(data.Clone(), resolved, sections.Default())
			if diff := cmp.Diff(first, second); diff != "" {
				t.Fatalf("%s (dark=%v) render differs (-first +second):\n%s", th.Name, dark, diff)
			}
		}
	}
}

func TestRenderRootCarriesDocumentID(t *testing.T) {
	tree := Render(cv.Default(), theme.Resolve(catalogTheme(t, "Modern Professional"), false), sections.Default())
	if tree.Role != "document" {
		t.Fatalf("expected document root, got %q", tree.Role)
	}
	if len(tree.Attrs) == 0 || tree.Attrs[0].Key != "id" || tree.Attrs[0].Value != RootID {
		t.Fatalf("expected root id %q, got %+v", RootID, tree.Attrs)
	}
	if got := tree.StyleValue("width"); got != "794px" {
		t.Fatalf("expected A4 width, got %q", got)
	}
}

func TestEmptyExperienceOmittedInEveryShape(t *testing.T) {
	data := cv.Default()
	data.Experience = nil
	for _, th := range theme.Catalog() {
		tree := Render(data, theme.Resolve(th, false), sections.Default())
		if n := tree.Find("section:experience"); len(n) != 0 {
			t.Fatalf("%s: experience section rendered for empty list", th.Name)
		}
		for _, title := range tree.Find("section-title") {
			if title.Text == "Experience" {
				t.Fatalf("%s: orphan experience heading", th.Name)
			}
		}
	}
}

func TestBlankSummaryOmitted(t *testing.T) {
	data := cv.Default()
	data.Personal.Summary = "  \n "
	tree := Render(data, theme.Resolve(catalogTheme(t, "Modern Professional"), false), sections.Default())
	if n := tree.Find("section:summary"); len(n) != 0 {
		t.Fatal("summary rendered for blank text")
	}
}

func TestSingleColumnFollowsOrderThenProjects(t *testing.T) {
	order := sections.Order{
		sections.Skills, sections.Interests, sections.Summary,
		sections.Languages, sections.Education, sections.Experience,
	}
	tree := Render(cv.Default(), theme.Resolve(catalogTheme(t, "Modern Professional"), false), order)
	want := []string{"skills", "interests", "summary", "languages", "education", "experience", "projects"}
	if diff := cmp.Diff(want, sectionRoles(tree)); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegionsFilterOrder(t *testing.T) {
	order := sections.Order{
		sections.Interests, sections.Education, sections.Skills,
		sections.Summary, sections.Languages, sections.Experience,
	}
	cases := []struct {
		theme   string
		regions map[string][]string
	}{
		{
			theme: "Executive Sidebar",
			regions: map[string][]string{
				"region:main":    {"education", "summary", "experience", "projects"},
				"region:sidebar": {"interests", "skills", "languages"},
			},
		},
		{
			theme: "Bold Banner",
			regions: map[string][]string{
				"region:main":    {"education", "summary", "experience", "projects"},
				"region:sidebar": {"interests", "skills", "languages"},
			},
		},
		{
			theme: "Diagonal Edge",
			regions: map[string][]string{
				"region:main":    {"education", "summary", "experience", "projects"},
				"region:sidebar": {"interests", "skills", "languages"},
			},
		},
		{
			theme: "Tri Panel",
			regions: map[string][]string{
				"region:left":   {"skills"},
				"region:center": {"education", "summary", "experience", "projects"},
				"region:right":  {"interests", "languages"},
			},
		},
		{
			theme: "Mosaic Terminal",
			regions: map[string][]string{
				"region:left":   {"skills"},
				"region:center": {"education", "summary", "experience", "projects"},
				"region:right":  {"interests", "languages"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.theme, func(t *testing.T) {
			tree := Render(cv.Default(), theme.Resolve(catalogTheme(t, tc.theme), false), order)
			for role, want := range tc.regions {
				region := findOne(t, tree, role)
				if diff := cmp.Diff(want, sectionRoles(region)); diff != "" {
					t.Fatalf("%s mismatch (-want +got):\n%s", role, diff)
				}
			}
		})
	}
}

func TestInvalidOrderFallsBackToDefault(t *testing.T) {
	th := theme.Resolve(catalogTheme(t, "Modern Professional"), false)
	got := Render(cv.Default(), th, sections.Order{sections.Skills, sections.Skills})
	want := Render(cv.Default(), th, sections.Default())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invalid order did not fall back (-want +got):\n%s", diff)
	}
}

func TestBulletParagraphs(t *testing.T) {
	data := cv.Default()
	data.Experience = []cv.Experience{{
		ID:          "e1",
		Company:     "Acme",
		Role:        "Engineer",
		Description: "Led the platform team.\n- Shipped v2\n\n- Cut latency by 40%",
	}}
	body := experienceBody(t, data)
	if len(body.Children) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(body.Children))
	}
	if body.Children[0].Role != "paragraph" || body.Children[0].Text != "Led the platform team." {
		t.Fatalf("unexpected first paragraph: %+v", body.Children[0])
	}
	for i, want := range []string{"Shipped v2", "Cut latency by 40%"} {
		b := body.Children[i+1]
		if b.Role != "bullet" {
			t.Fatalf("paragraph %d: expected bullet, got %q", i+1, b.Role)
		}
		if got := findOne(t, b, "bullet-text").Text; got != want {
			t.Fatalf("bullet %d: expected %q, got %q", i, want, got)
		}
		if findOne(t, b, "bullet-marker").Text != "•" {
			t.Fatalf("bullet %d: missing marker", i)
		}
	}
}

func TestBulletOnlyDescription(t *testing.T) {
	data := cv.Default()
	data.Experience = []cv.Experience{{ID: "e1", Company: "Acme", Description: "- Led team\n- Shipped feature"}}
	body := experienceBody(t, data)
	var got []string
	for _, b := range body.Children {
		if b.Role != "bullet" {
			t.Fatalf("expected only bullets, got %q", b.Role)
		}
		got = append(got, findOne(t, b, "bullet-text").Text)
	}
	if diff := cmp.Diff([]string{"Led team", "Shipped feature"}, got); diff != "" {
		t.Fatalf("bullets mismatch (-want +got):\n%s", diff)
	}
}

// experienceBody renders data and returns the body of its single experience
// entry.
func experienceBody(t *testing.T, data cv.Data) Node {
	t.Helper()
	tree := Render(data, theme.Resolve(catalogTheme(t, "Modern Professional"), false), sections.Default())
	exp := findOne(t, tree, "section:experience")
	return findOne(t, exp, "entry-body")
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("one\r\n\r\n- two\n -not a bullet\n-also not")
	want := []Paragraph{
		{Text: "one"},
		{Text: "two", Bullet: true},
		{Text: " -not a bullet"},
		{Text: "-also not"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionSizingOverride(t *testing.T) {
	th := catalogTheme(t, "Modern Professional")
	spacing := 1.5
	th.Sections = map[sections.Key]theme.SizingOverride{
		sections.Summary: {Spacing: &spacing},
	}
	tree := Render(cv.Default(), theme.Resolve(th, false), sections.Default())

	summary := findOne(t, tree, "section:summary")
	if got := summary.StyleValue("margin-bottom"); got != "27px" {
		t.Fatalf("expected overridden gap 27px, got %q", got)
	}
	para := summary.Find("paragraph")[0]
	if got := para.StyleValue("font-size"); got != "10pt" {
		t.Fatalf("expected inherited base font 10pt, got %q", got)
	}

	exp := findOne(t, tree, "section:experience")
	if got := exp.StyleValue("margin-bottom"); got != "18px" {
		t.Fatalf("expected global gap 18px, got %q", got)
	}
}

func TestNameScalesWithShape(t *testing.T) {
	cases := map[string]string{
		"Modern Professional": "31.2pt",
		"Executive Sidebar":   pt(catalogTheme(t, "Executive Sidebar").Sizing.BaseFontSize * catalogTheme(t, "Executive Sidebar").Sizing.HeadingScale * 2.4),
		"Tri Panel":           pt(catalogTheme(t, "Tri Panel").Sizing.BaseFontSize * catalogTheme(t, "Tri Panel").Sizing.HeadingScale * 2.0),
	}
	for name, want := range cases {
		tree := Render(cv.Default(), theme.Resolve(catalogTheme(t, name), false), sections.Default())
		if got := findOne(t, tree, "name").StyleValue("font-size"); got != want {
			t.Fatalf("%s: expected name size %s, got %s", name, want, got)
		}
	}
}

func TestDarkPaletteReachesTree(t *testing.T) {
	th := catalogTheme(t, "Modern Professional")
	tree := Render(cv.Default(), theme.Resolve(th, true), sections.Default())
	if got := tree.StyleValue("background"); got != th.DarkColors.Background {
		t.Fatalf("expected dark background %s, got %s", th.DarkColors.Background, got)
	}
	// Accent is not overridden in the dark palette.
	marker := tree.Find("section-title")[0]
	if !strings.Contains(marker.StyleValue("border-bottom"), th.Colors.Accent) {
		t.Fatalf("expected light accent to survive, got %q", marker.StyleValue("border-bottom"))
	}
}

func TestPhotoOnlyWhenPresent(t *testing.T) {
	data := cv.Default()
	data.Personal.Photo = ""
	th := theme.Resolve(catalogTheme(t, "Executive Sidebar"), false)
	if n := Render(data, th, sections.Default()).Find("photo"); len(n) != 0 {
		t.Fatal("photo rendered without data")
	}
	data.Personal.Photo = "data:image/png;base64,AAAA"
	img := findOne(t, Render(data, th, sections.Default()), "photo")
	if img.Tag != "img" || img.Attrs[0].Value != data.Personal.Photo {
		t.Fatalf("unexpected photo node: %+v", img)
	}
}

func TestPlaceholder(t *testing.T) {
	n := Placeholder("theme not found")
	if got := findOne(t, n, "placeholder-message").Text; got != "Error: theme not found" {
		t.Fatalf("unexpected placeholder text %q", got)
	}
}
