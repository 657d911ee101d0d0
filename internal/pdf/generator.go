package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"io"

	"github.com/go-rod/rod/lib/proto"
)

// A4WidthPx is the A4 width in CSS pixels at 96 DPI.
const A4WidthPx = 794

// A4 paper in inches.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
)

const pagesTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page { size: A4; margin: 0; }
        html, body { margin: 0; padding: 0; background: white; }
        .page {
            width: 210mm;
            height: 297mm;
            overflow: hidden;
            page-break-after: always;
            break-after: page;
        }
        .page:last-child { page-break-after: auto; break-after: auto; }
        .page img { display: block; width: 100%; height: 100%; }
    </style>
</head>
<body>
{{range .}}<div class="page"><img src="{{.}}"></div>
{{end}}</body>
</html>
`

var pagesTmpl = template.Must(template.New("pages").Parse(pagesTemplate))

// Assemble places each page image edge to edge on its own portrait A4 page
// and prints the result to PDF.
func (b *Browser) Assemble(ctx context.Context, pages []image.Image) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("assemble: no pages")
	}
	srcs := make([]template.URL, 0, len(pages))
	for i, img := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		srcs = append(srcs, template.URL("data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes())))
	}
	var doc bytes.Buffer
	if err := pagesTmpl.Execute(&doc, srcs); err != nil {
		return nil, fmt.Errorf("execute pages template: %w", err)
	}

	page, cleanup, err := b.page(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := page.SetDocumentContent(doc.String()); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        float64Ptr(paperWidthIn),
		PaperHeight:       float64Ptr(paperHeightIn),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}
