package layout

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"cvcrafter/internal/theme"
)

// ReadyID marks a fully written document. Capture waits for it.
const ReadyID = "cv-render-ready"

// DocumentOptions controls how the tree is framed on the page.
type DocumentOptions struct {
	// Scale is the preview zoom. Zero or one means unscaled.
	Scale float64
	// Print drops the preview scaling and the page chrome.
	Print bool
}

// documentTemplate is the standalone page around the rendered tree. The page
// width is fixed at A4 width so that capture is independent of the viewport.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        @page { size: A4; margin: 0; }
        html, body {
            margin: 0;
            padding: 0;
            background: {{.Backdrop}};
        }
        * {
            -webkit-print-color-adjust: exact;
            print-color-adjust: exact;
        }
        #{{.RootID}} {
            margin: {{.Margin}};
            {{- if .Transform}}
            transform: {{.Transform}};
            transform-origin: top left;
            {{- end}}
            {{- if not .Print}}
            box-shadow: 0 4px 24px rgba(0, 0, 0, 0.18);
            {{- end}}
        }
        #{{.RootID}} p, #{{.RootID}} ul { margin: 0; }
    </style>
</head>
<body>
{{.Body}}
<div id="{{.ReadyID}}" hidden></div>
</body>
</html>
`

var shell = template.Must(template.New("document").Parse(documentTemplate))

type documentData struct {
	Title     string
	Backdrop  template.CSS
	Margin    template.CSS
	Transform template.CSS
	Print     bool
	RootID    template.CSS
	ReadyID   string
	Body      template.HTML
}

// WriteDocument writes tree as a standalone HTML page.
func WriteDocument(w io.Writer, tree Node, th theme.Resolved, opts DocumentOptions) error {
	var body strings.Builder
	writeNode(&body, tree)

	data := documentData{
		Title:    th.Name,
		Backdrop: "#e5e7eb",
		Margin:   "24px auto",
		Print:    opts.Print,
		RootID:   template.CSS(RootID),
		ReadyID:  ReadyID,
		Body:     template.HTML(body.String()),
	}
	if opts.Print {
		data.Backdrop = "#ffffff"
		data.Margin = "0"
	} else if opts.Scale > 0 && opts.Scale != 1 {
		data.Margin = "24px"
		data.Transform = template.CSS(fmt.Sprintf("scale(%s)", trimFloat(opts.Scale)))
	}
	if err := shell.Execute(w, data); err != nil {
		return fmt.Errorf("execute document template: %w", err)
	}
	return nil
}

// Document is WriteDocument into a byte slice.
func Document(tree Node, th theme.Resolved, opts DocumentOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, tree, th, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var voidTags = map[string]bool{"img": true, "br": true, "hr": true}

// writeNode serializes the tree. Roles become data-role attributes so the
// markup stays addressable by tests and the capture scripts.
func writeNode(b *strings.Builder, n Node) {
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		writeAttr(b, a.Key, a.Value)
	}
	if n.Role != "" {
		writeAttr(b, "data-role", n.Role)
	}
	if len(n.Style) > 0 {
		writeAttr(b, "style", styleString(n.Style))
	}
	b.WriteByte('>')
	if voidTags[n.Tag] {
		return
	}
	b.WriteString(html.EscapeString(n.Text))
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func styleString(decls []Decl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Prop+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
