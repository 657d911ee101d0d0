package layout

import "strings"

const bulletPrefix = "- "

// Paragraph is one line of free text after splitting.
type Paragraph struct {
	Text   string
	Bullet bool
}

// SplitParagraphs breaks text on line breaks. Blank lines are dropped and a
// leading "- " marks a bullet whose marker is stripped.
func SplitParagraphs(s string) []Paragraph {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, bulletPrefix) {
			out = append(out, Paragraph{Text: strings.TrimPrefix(line, bulletPrefix), Bullet: true})
			continue
		}
		out = append(out, Paragraph{Text: line})
	}
	return out
}

func (r *renderer) paragraphs(s string, m metrics, color string) []Node {
	paras := SplitParagraphs(s)
	out := make([]Node, 0, len(paras))
	for _, p := range paras {
		if !p.Bullet {
			out = append(out, text("p", "paragraph", p.Text, css(
				"margin", "0 0 "+px(m.lineGap)+" 0",
				"font-size", pt(m.body),
				"line-height", "1.45",
				"color", color,
			)))
			continue
		}
		out = append(out, el("p", "bullet", css(
			"display", "flex",
			"gap", px(m.lineGap*2),
			"margin", "0 0 "+px(m.lineGap)+" 0",
			"font-size", pt(m.body),
			"line-height", "1.45",
			"color", color,
		),
			text("span", "bullet-marker", "•", css("color", r.palette.Accent)),
			text("span", "bullet-text", p.Text, nil),
		))
	}
	return out
}
