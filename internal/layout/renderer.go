package layout

import (
	"strings"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

// RootID is the element id of the rendered document region.
const RootID = "cv-render"

// Region membership per shape. A region only ever shows its own keys, in the
// order the user chose.
var (
	allKeys     = []sections.Key{sections.Summary, sections.Experience, sections.Education, sections.Skills, sections.Languages, sections.Interests}
	mainKeys    = []sections.Key{sections.Summary, sections.Experience, sections.Education}
	sidebarKeys = []sections.Key{sections.Skills, sections.Languages, sections.Interests}
	leftKeys    = []sections.Key{sections.Skills}
	rightKeys   = []sections.Key{sections.Languages, sections.Interests}
)

type renderer struct {
	data    cv.Data
	theme   theme.Resolved
	palette theme.ColorSet
	order   sections.Order
}

// Render builds the document tree for one CV under one resolved theme and
// section order. It has no side effects and equal inputs give equal trees. An
// order that is not a valid permutation renders in the default order.
func Render(data cv.Data, th theme.Resolved, order sections.Order) Node {
	if !order.Valid() {
		order = sections.Default()
	}
	r := &renderer{data: data, theme: th, palette: th.Palette, order: order}

	switch th.Shape {
	case theme.TwoColumn:
		switch th.Variant {
		case theme.Banner:
			return r.banner()
		case theme.Diagonal:
			return r.diagonal()
		default:
			return r.sidebar()
		}
	case theme.ThreeColumn:
		switch th.Variant {
		case theme.Mosaic:
			return r.mosaic()
		default:
			return r.triPanel()
		}
	default:
		return r.classic()
	}
}

// Placeholder is shown instead of the document when no theme can be resolved.
func Placeholder(message string) Node {
	return el("div", "placeholder", css(
		"padding", "40px",
		"font-family", "sans-serif",
		"color", "#b91c1c",
	), text("p", "placeholder-message", "Error: "+message, nil))
}

func (r *renderer) mainTone() tone {
	return tone{
		text:    r.palette.Text,
		muted:   r.palette.TextSecondary,
		strong:  r.palette.Primary,
		heading: r.palette.Secondary,
	}
}

func (r *renderer) sidebarTone() tone {
	c := r.sidebarText()
	return tone{text: c, muted: c, strong: c, heading: c, sidebar: true}
}

func (r *renderer) sidebarBackground() string {
	if r.palette.Sidebar != "" {
		return r.palette.Sidebar
	}
	return r.palette.Background
}

func (r *renderer) sidebarText() string {
	if r.palette.SidebarText != "" {
		return r.palette.SidebarText
	}
	return r.palette.Text
}

func (r *renderer) columnAlt() string {
	if r.palette.ColumnAlt != "" {
		return r.palette.ColumnAlt
	}
	return r.palette.Background
}

func (r *renderer) radius() string {
	if r.theme.Rounded {
		return "8px"
	}
	return "0"
}

func (r *renderer) pillRadius() string {
	if r.theme.Rounded {
		return "999px"
	}
	return "2px"
}

func (r *renderer) root(extra []Decl, children ...Node) Node {
	style := css(
		"position", "relative",
		"box-sizing", "border-box",
		"width", px(PageWidthPx),
		"min-height", px(PageHeightPx),
		"overflow", "hidden",
		"font-family", r.theme.Font,
		"background", r.palette.Background,
		"color", r.palette.Text,
	)
	n := el("div", "document", append(style, extra...), children...)
	n.Attrs = []Attr{{Key: "id", Value: RootID}, {Key: "data-theme", Value: r.theme.Name}}
	return n
}

func (r *renderer) ordered(keys []sections.Key, t tone) []Node {
	var out []Node
	for _, k := range r.order.Filter(keys...) {
		if n, ok := r.section(k, t); ok {
			out = append(out, n)
		}
	}
	return out
}

// mainFlow is the ordered main sections followed by the fixed projects block.
func (r *renderer) mainFlow(keys []sections.Key, t tone) []Node {
	out := r.ordered(keys, t)
	if n, ok := r.section(sections.Projects, t); ok {
		out = append(out, n)
	}
	return out
}

func region(role string, style []Decl, children ...Node) Node {
	return el("div", "region:"+role, style, children...)
}

func alignment(a theme.HeaderAlign) string {
	switch a {
	case theme.AlignCenter:
		return "center"
	case theme.AlignRight:
		return "right"
	default:
		return "left"
	}
}

func (r *renderer) photo(size float64, border string) (Node, bool) {
	src := strings.TrimSpace(r.data.Personal.Photo)
	if src == "" {
		return Node{}, false
	}
	radius := "50%"
	if !r.theme.Rounded && r.theme.Shape != theme.SingleColumn {
		radius = "0"
	}
	n := el("img", "photo", css(
		"width", px(size),
		"height", px(size),
		"object-fit", "cover",
		"flex-shrink", "0",
		"border-radius", radius,
		"border", "4px solid "+border,
	))
	n.Attrs = []Attr{{Key: "src", Value: src}, {Key: "alt", Value: r.data.Personal.Name}}
	return n, true
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// identity is the name and title pair.
func (r *renderer) identity(m metrics, nameColor, titleColor, align string) []Node {
	return []Node{
		text("h1", "name", orDefault(r.data.Personal.Name, "Your Name"), css(
			"margin", "0",
			"font-size", pt(m.name),
			"font-weight", "700",
			"line-height", "1.1",
			"text-align", align,
			"color", nameColor,
		)),
		text("h2", "title", orDefault(r.data.Personal.Title, "Your Title"), css(
			"margin", px(m.lineGap)+" 0 0 0",
			"font-size", pt(m.title),
			"font-weight", "400",
			"text-align", align,
			"color", titleColor,
		)),
	}
}

// contact is the fixed contact block. Inline places items on one wrapping
// row, otherwise they stack.
func (r *renderer) contact(m metrics, color, align string, inline bool) (Node, bool) {
	p := r.data.Personal
	fields := []struct{ kind, value string }{
		{"phone", p.Phone},
		{"email", p.Email},
		{"location", p.Location},
		{"website", p.Website},
	}
	var items []Node
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		item := text("span", "contact-item", f.value, css(
			"font-size", pt(m.small),
			"color", color,
		))
		item.Attrs = []Attr{{Key: "data-kind", Value: f.kind}}
		items = append(items, item)
	}
	if len(items) == 0 {
		return Node{}, false
	}
	style := css(
		"display", "flex",
		"flex-direction", "column",
		"gap", px(m.lineGap*2),
		"margin-bottom", px(m.gap),
	)
	if inline {
		justify := "flex-start"
		switch align {
		case "center":
			justify = "center"
		case "right":
			justify = "flex-end"
		}
		style = css(
			"display", "flex",
			"flex-wrap", "wrap",
			"justify-content", justify,
			"column-gap", px(m.gap),
			"row-gap", px(m.lineGap*2),
			"margin-top", px(m.itemGap),
		)
	}
	return el("div", "contact", style, items...), true
}

// classic is the single-column treatment: header on top, one flow below.
func (r *renderer) classic() Node {
	hm := r.metricsFor(sections.Header)
	cm := r.metricsFor(sections.Contact)
	align := alignment(r.theme.HeaderAlign)

	textBlock := r.identity(hm, r.palette.Primary, r.palette.Secondary, align)
	if c, ok := r.contact(cm, r.palette.TextSecondary, align, true); ok {
		textBlock = append(textBlock, c)
	}

	direction := "row"
	switch r.theme.HeaderAlign {
	case theme.AlignCenter:
		direction = "column"
	case theme.AlignRight:
		direction = "row-reverse"
	}
	var header []Node
	if img, ok := r.photo(112, r.palette.Background); ok {
		header = append(header, img)
	}
	header = append(header, el("div", "identity", css("flex-grow", "1"), textBlock...))

	return r.root(css("padding", "40px"),
		el("header", "header", css(
			"display", "flex",
			"flex-direction", direction,
			"align-items", "center",
			"gap", px(hm.gap*1.5),
			"margin-bottom", px(hm.gap*1.6),
		), header...),
		region("main", nil, r.mainFlow(allKeys, r.mainTone())...),
	)
}

// sidebarColumn is the contact block plus the sidebar's ordered sections.
func (r *renderer) sidebarColumn(role string, keys []sections.Key, withPhoto bool, style []Decl) Node {
	sm := r.metricsFor(sections.Sidebar)
	var children []Node
	if withPhoto {
		if img, ok := r.photo(120, r.sidebarText()); ok {
			children = append(children, el("div", "photo-frame", css("text-align", "center", "margin-bottom", px(sm.gap)), img))
		}
	}
	if c, ok := r.contact(sm, r.sidebarText(), "left", false); ok {
		children = append(children, c)
	}
	children = append(children, r.ordered(keys, r.sidebarTone())...)
	return region(role, style, children...)
}

// sidebar is the two-column treatment with a full-height colored sidebar on
// the left and the header at the top of the main column.
func (r *renderer) sidebar() Node {
	hm := r.metricsFor(sections.Header)
	align := alignment(r.theme.HeaderAlign)

	main := append([]Node{el("header", "header", css("margin-bottom", px(hm.gap*1.5)),
		r.identity(hm, r.palette.Primary, r.palette.Secondary, align)...)},
		r.mainFlow(mainKeys, r.mainTone())...)

	return r.root(css("display", "flex"),
		r.sidebarColumn("sidebar", sidebarKeys, true, css(
			"box-sizing", "border-box",
			"width", "34%",
			"min-height", px(PageHeightPx),
			"padding", "36px 24px",
			"background", r.sidebarBackground(),
			"color", r.sidebarText(),
		)),
		region("main", css("box-sizing", "border-box", "width", "66%", "padding", "40px 36px"), main...),
	)
}

// banner is the two-column treatment with a full-width accent banner above
// the columns.
func (r *renderer) banner() Node {
	hm := r.metricsFor(sections.Header)
	cm := r.metricsFor(sections.Contact)
	align := alignment(r.theme.HeaderAlign)

	identity := r.identity(hm, r.palette.Background, r.palette.Background, align)
	if c, ok := r.contact(cm, r.palette.Background, align, true); ok {
		identity = append(identity, c)
	}
	var head []Node
	if img, ok := r.photo(96, r.palette.Background); ok {
		head = append(head, img)
	}
	head = append(head, el("div", "identity", css("flex-grow", "1"), identity...))

	direction := "row"
	if r.theme.HeaderAlign == theme.AlignCenter {
		direction = "column"
	}
	return r.root(nil,
		el("header", "header", css(
			"display", "flex",
			"flex-direction", direction,
			"align-items", "center",
			"gap", px(hm.gap),
			"padding", "36px 40px",
			"background", r.palette.Accent,
		), head...),
		el("div", "columns", css("display", "flex", "gap", "28px", "padding", "32px 40px"),
			region("main", css("width", "64%"), r.mainFlow(mainKeys, r.mainTone())...),
			region("sidebar", css(
				"box-sizing", "border-box",
				"width", "36%",
				"padding", "20px",
				"border-radius", r.radius(),
				"background", r.sidebarBackground(),
				"color", r.sidebarText(),
			), r.ordered(sidebarKeys, r.sidebarTone())...),
		),
	)
}

// diagonal is the two-column treatment with a slanted accent background
// behind the header and the sidebar on the right.
func (r *renderer) diagonal() Node {
	hm := r.metricsFor(sections.Header)
	align := alignment(r.theme.HeaderAlign)

	var head []Node
	if img, ok := r.photo(104, r.palette.Background); ok {
		head = append(head, img)
	}
	head = append(head, el("div", "identity", css("flex-grow", "1"),
		r.identity(hm, r.palette.Background, r.palette.Background, align)...))

	direction := "row"
	switch r.theme.HeaderAlign {
	case theme.AlignRight:
		direction = "row-reverse"
	case theme.AlignCenter:
		direction = "column"
	}

	return r.root(nil,
		el("div", "decoration", css(
			"position", "absolute",
			"top", "0",
			"left", "0",
			"width", "100%",
			"height", "250px",
			"background", r.palette.Accent,
			"clip-path", "polygon(0 0, 100% 0, 100% 62%, 0 100%)",
		)),
		el("header", "header", css(
			"position", "relative",
			"display", "flex",
			"flex-direction", direction,
			"align-items", "center",
			"gap", px(hm.gap),
			"padding", "40px 40px 90px 40px",
		), head...),
		el("div", "columns", css("position", "relative", "display", "flex", "gap", "28px", "padding", "0 40px 40px 40px"),
			region("main", css("width", "62%"), r.mainFlow(mainKeys, r.mainTone())...),
			r.sidebarColumn("sidebar", sidebarKeys, false, css(
				"box-sizing", "border-box",
				"width", "38%",
				"padding", "22px",
				"border-radius", r.radius(),
				"background", r.sidebarBackground(),
				"color", r.sidebarText(),
			)),
		),
	)
}

// triPanel is the three-column treatment with a full-width header.
func (r *renderer) triPanel() Node {
	hm := r.metricsFor(sections.Header)
	align := alignment(r.theme.HeaderAlign)

	var head []Node
	if img, ok := r.photo(96, r.palette.Accent); ok {
		head = append(head, img)
	}
	head = append(head, r.identity(hm, r.palette.Primary, r.palette.Secondary, align)...)

	return r.root(nil,
		el("header", "header", css(
			"display", "flex",
			"flex-direction", "column",
			"align-items", "center",
			"padding", "32px 36px",
			"border-bottom", "3px solid "+r.palette.Accent,
		), head...),
		el("div", "columns", css("display", "flex", "align-items", "stretch", "min-height", px(PageHeightPx-200)),
			r.sidebarColumn("left", leftKeys, false, css(
				"box-sizing", "border-box",
				"width", "26%",
				"padding", "24px 18px",
				"background", r.sidebarBackground(),
				"color", r.sidebarText(),
			)),
			region("center", css("box-sizing", "border-box", "width", "48%", "padding", "24px 22px"),
				r.mainFlow(mainKeys, r.mainTone())...),
			region("right", css(
				"box-sizing", "border-box",
				"width", "26%",
				"padding", "24px 18px",
				"background", r.columnAlt(),
			), r.ordered(rightKeys, r.mainTone())...),
		),
	)
}

// mosaic is the three-column treatment where the left column carries the
// identity block and an accent strip tops the centre column.
func (r *renderer) mosaic() Node {
	hm := r.metricsFor(sections.Header)
	sm := r.metricsFor(sections.Sidebar)
	ink := r.sidebarText()

	var left []Node
	if img, ok := r.photo(110, ink); ok {
		left = append(left, el("div", "photo-frame", css("margin-bottom", px(sm.gap)), img))
	}
	left = append(left, el("header", "header", css("margin-bottom", px(hm.gap)),
		r.identity(hm, ink, r.palette.Accent, "left")...))
	if c, ok := r.contact(sm, ink, "left", false); ok {
		left = append(left, c)
	}
	left = append(left, r.ordered(leftKeys, r.sidebarTone())...)

	center := append([]Node{el("div", "decoration", css(
		"height", "6px",
		"margin-bottom", "22px",
		"border-radius", r.radius(),
		"background", r.palette.Accent,
	))}, r.mainFlow(mainKeys, r.mainTone())...)

	return r.root(css("display", "flex"),
		region("left", css(
			"box-sizing", "border-box",
			"width", "30%",
			"min-height", px(PageHeightPx),
			"padding", "32px 20px",
			"background", r.sidebarBackground(),
			"color", ink,
		), left...),
		region("center", css("box-sizing", "border-box", "width", "44%", "padding", "32px 22px"), center...),
		region("right", css(
			"box-sizing", "border-box",
			"width", "26%",
			"padding", "32px 18px",
			"background", r.columnAlt(),
		), r.ordered(rightKeys, r.mainTone())...),
	)
}
