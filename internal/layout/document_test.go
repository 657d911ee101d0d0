package layout

import (
	"strings"
	"testing"

	"cvcrafter/internal/cv"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

func TestDocumentPreviewScaling(t *testing.T) {
	th := theme.Resolve(theme.Catalog()[0], false)
	tree := Render(cv.Default(), th, sections.Default())

	preview, err := Document(tree, th, DocumentOptions{Scale: 0.75})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	html := string(preview)
	for _, want := range []string{`id="cv-render"`, `id="cv-render-ready"`, "scale(0.75)", `data-role="section:summary"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("preview missing %q", want)
		}
	}

	printed, err := Document(tree, th, DocumentOptions{Scale: 0.75, Print: true})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if strings.Contains(string(printed), "scale(") {
		t.Fatal("print mode kept the preview transform")
	}
}

func TestDocumentEscapesContent(t *testing.T) {
	data := cv.Default()
	data.Personal.Name = `<script>alert("x")</script>`
	th := theme.Resolve(theme.Catalog()[0], false)
	out, err := Document(Render(data, th, sections.Default()), th, DocumentOptions{})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatal("name was not escaped")
	}
	if !strings.Contains(string(out), "&lt;script&gt;") {
		t.Fatal("escaped name missing")
	}
}

func TestWriteNodeVoidElements(t *testing.T) {
	var b strings.Builder
	n := Node{Tag: "img", Role: "photo", Attrs: []Attr{{Key: "src", Value: "data:image/png;base64,AA"}}}
	writeNode(&b, n)
	if got, want := b.String(), `<img src="data:image/png;base64,AA" data-role="photo">`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
