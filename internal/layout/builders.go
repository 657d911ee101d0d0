package layout

import (
	"strings"

	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

var sectionLabels = map[sections.Key]string{
	sections.Summary:    "Summary",
	sections.Experience: "Experience",
	sections.Education:  "Education",
	sections.Projects:   "Projects",
	sections.Skills:     "Skills",
	sections.Languages:  "Languages",
	sections.Interests:  "Interests",
}

// tone is the color context of a region.
type tone struct {
	text    string
	muted   string
	strong  string
	heading string
	sidebar bool
}

// builder produces a section body, or reports false when the section has
// nothing to show.
type builder func(r *renderer, m metrics, t tone) ([]Node, bool)

var builders = map[sections.Key]builder{
	sections.Summary:    buildSummary,
	sections.Experience: buildExperience,
	sections.Education:  buildEducation,
	sections.Projects:   buildProjects,
	sections.Skills:     buildSkills,
	sections.Languages:  buildLanguages,
	sections.Interests:  buildInterests,
}

func (r *renderer) section(key sections.Key, t tone) (Node, bool) {
	build, ok := builders[key]
	if !ok {
		return Node{}, false
	}
	m := r.metricsFor(key)
	body, ok := build(r, m, t)
	if !ok {
		return Node{}, false
	}
	children := append([]Node{r.sectionTitle(sectionLabels[key], m, t)}, body...)
	return el("section", "section:"+string(key), css("margin-bottom", px(m.gap)), children...), true
}

func (r *renderer) sectionTitle(label string, m metrics, t tone) Node {
	base := []string{
		"margin", "0 0 " + px(m.itemGap) + " 0",
		"font-size", pt(m.heading),
	}
	var extra []string
	switch r.theme.TitleStyle {
	case theme.TitleUppercase:
		extra = []string{
			"font-weight", "600",
			"letter-spacing", "0.15em",
			"text-transform", "uppercase",
			"color", t.heading,
			"border-bottom", "1px solid " + t.muted,
			"padding-bottom", px(m.lineGap * 2),
		}
	case theme.TitleLight:
		extra = []string{
			"font-weight", "300",
			"color", t.heading,
		}
	case theme.TitleBar:
		extra = []string{
			"font-weight", "700",
			"color", t.heading,
			"border-left", "4px solid " + r.palette.Accent,
			"padding-left", px(m.lineGap * 3),
		}
	case theme.TitlePill:
		extra = []string{
			"display", "inline-block",
			"font-weight", "700",
			"color", r.palette.Background,
			"background", r.palette.Accent,
			"border-radius", "999px",
			"padding", px(m.lineGap) + " " + px(m.itemGap*1.2),
		}
	default:
		extra = []string{
			"font-weight", "700",
			"color", t.heading,
			"border-bottom", "2px solid " + r.palette.Accent,
			"padding-bottom", px(m.lineGap),
		}
	}
	return text("h3", "section-title", label, css(append(base, extra...)...))
}

func dateRange(start, end string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{start, end} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

// entry renders one dated item of a list section.
func (r *renderer) entry(m metrics, t tone, title, subtitle, start, end, description string) Node {
	head := []Node{text("h4", "entry-title", title, css(
		"margin", "0",
		"font-size", pt(m.item),
		"font-weight", "600",
		"color", t.strong,
	))}
	if dates := dateRange(start, end); dates != "" {
		head = append(head, text("span", "entry-meta", dates, css(
			"font-size", pt(m.small),
			"font-weight", "500",
			"white-space", "nowrap",
			"color", t.muted,
		)))
	}
	children := []Node{el("div", "entry-head", css(
		"display", "flex",
		"justify-content", "space-between",
		"align-items", "baseline",
		"gap", px(m.itemGap),
	), head...)}
	if strings.TrimSpace(subtitle) != "" {
		subColor := r.palette.Secondary
		if t.sidebar {
			subColor = t.text
		}
		children = append(children, text("p", "entry-subtitle", subtitle, css(
			"margin", "0",
			"font-size", pt(m.body),
			"font-style", "italic",
			"font-weight", "500",
			"color", subColor,
		)))
	}
	if paras := r.paragraphs(description, m, t.text); len(paras) > 0 {
		children = append(children, el("div", "entry-body", css("margin-top", px(m.lineGap*2)), paras...))
	}
	return el("div", "entry", css("margin-bottom", px(m.itemGap)), children...)
}

func buildSummary(r *renderer, m metrics, t tone) ([]Node, bool) {
	if strings.TrimSpace(r.data.Personal.Summary) == "" {
		return nil, false
	}
	return r.paragraphs(r.data.Personal.Summary, m, t.text), true
}

func buildExperience(r *renderer, m metrics, t tone) ([]Node, bool) {
	if len(r.data.Experience) == 0 {
		return nil, false
	}
	out := make([]Node, 0, len(r.data.Experience))
	for _, e := range r.data.Experience {
		out = append(out, r.entry(m, t, e.Role, e.Company, e.StartDate, e.EndDate, e.Description))
	}
	return out, true
}

func buildEducation(r *renderer, m metrics, t tone) ([]Node, bool) {
	if len(r.data.Education) == 0 {
		return nil, false
	}
	out := make([]Node, 0, len(r.data.Education))
	for _, e := range r.data.Education {
		out = append(out, r.entry(m, t, e.Degree, e.Institution, e.StartDate, e.EndDate, e.Description))
	}
	return out, true
}

func buildProjects(r *renderer, m metrics, t tone) ([]Node, bool) {
	if len(r.data.Projects) == 0 {
		return nil, false
	}
	out := make([]Node, 0, len(r.data.Projects))
	for _, p := range r.data.Projects {
		subtitle := p.Role
		if link := strings.TrimSpace(p.Link); link != "" {
			if subtitle != "" {
				subtitle += " · "
			}
			subtitle += link
		}
		out = append(out, r.entry(m, t, p.Name, subtitle, p.StartDate, p.EndDate, p.Description))
	}
	return out, true
}

func (r *renderer) tags(m metrics, t tone, names []string) []Node {
	out := make([]Node, 0, len(names))
	for _, name := range names {
		if t.sidebar {
			out = append(out, text("li", "tag", name, css(
				"font-size", pt(m.body),
				"margin-bottom", px(m.lineGap),
				"color", t.text,
			)))
			continue
		}
		out = append(out, text("span", "tag", name, css(
			"display", "inline-block",
			"font-size", pt(m.small),
			"padding", px(m.lineGap)+" "+px(m.itemGap),
			"border-radius", r.pillRadius(),
			"background", r.palette.Accent,
			"color", r.palette.Background,
		)))
	}
	if t.sidebar {
		return []Node{el("ul", "tag-list", css("list-style", "none", "margin", "0", "padding", "0"), out...)}
	}
	return []Node{el("div", "tag-list", css("display", "flex", "flex-wrap", "wrap", "gap", px(m.lineGap*2)), out...)}
}

func nonBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}

func buildSkills(r *renderer, m metrics, t tone) ([]Node, bool) {
	names := make([]string, 0, len(r.data.Skills))
	for _, s := range r.data.Skills {
		names = append(names, s.Name)
	}
	names = nonBlank(names)
	if len(names) == 0 {
		return nil, false
	}
	return r.tags(m, t, names), true
}

func buildInterests(r *renderer, m metrics, t tone) ([]Node, bool) {
	names := make([]string, 0, len(r.data.Interests))
	for _, i := range r.data.Interests {
		names = append(names, i.Name)
	}
	names = nonBlank(names)
	if len(names) == 0 {
		return nil, false
	}
	return r.tags(m, t, names), true
}

func buildLanguages(r *renderer, m metrics, t tone) ([]Node, bool) {
	out := make([]Node, 0, len(r.data.Languages))
	for _, l := range r.data.Languages {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		row := []Node{text("span", "language-name", l.Name, css("font-weight", "600", "color", t.strong))}
		if lvl := strings.TrimSpace(l.Level); lvl != "" {
			row = append(row, text("span", "language-level", lvl, css("font-size", pt(m.small), "color", t.muted)))
		}
		out = append(out, el("div", "language", css(
			"display", "flex",
			"justify-content", "space-between",
			"font-size", pt(m.body),
			"margin-bottom", px(m.lineGap),
		), row...))
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
