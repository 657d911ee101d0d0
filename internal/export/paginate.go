package export

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// A4 geometry.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
	// A4WidthPx is the A4 width at 96 DPI.
	A4WidthPx = 794
)

var ErrEmptyImage = errors.New("export: empty capture")

// PageHeight is the band height that keeps the A4 aspect ratio for an image
// of the given pixel width.
func PageHeight(width int) int {
	return int(math.Round(float64(width) * A4HeightMM / A4WidthMM))
}

// PageCount is ceil(height / PageHeight(width)).
func PageCount(width, height int) int {
	pageH := PageHeight(width)
	if pageH <= 0 || height <= 0 {
		return 0
	}
	return (height + pageH - 1) / pageH
}

// Paginate slices img top to bottom into A4-proportioned bands. Each band has
// the full image width; the last one is padded with white.
func Paginate(img image.Image) ([]image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	pageH := PageHeight(w)
	n := PageCount(w, h)

	pages := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		page := image.NewRGBA(image.Rect(0, 0, w, pageH))
		draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		top := b.Min.Y + i*pageH
		src := image.Rect(b.Min.X, top, b.Max.X, min(top+pageH, b.Max.Y))
		draw.Draw(page, image.Rect(0, 0, w, src.Dy()), img, src.Min, draw.Src)
		pages = append(pages, page)
	}
	return pages, nil
}
