package layout

import (
	"math"
	"strconv"

	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

// Page geometry at 96 DPI.
const (
	PageWidthPx  = 794
	PageHeightPx = 1123
)

// nameScale is the extra-large heading multiplier per shape.
var nameScale = map[theme.Shape]float64{
	theme.SingleColumn: 2.6,
	theme.TwoColumn:    2.4,
	theme.ThreeColumn:  2.0,
}

// Fixed multiples of the effective sizing triple.
const (
	titleFactor    = 1.4
	headingFactor  = 1.3
	itemFactor     = 1.1
	smallFactor    = 0.85
	sectionGapBase = 18.0
	itemGapBase    = 10.0
	lineGapBase    = 3.0
)

// metrics are the derived sizes for one section.
type metrics struct {
	body    float64
	small   float64
	item    float64
	heading float64
	name    float64
	title   float64
	gap     float64
	itemGap float64
	lineGap float64
}

func deriveMetrics(s theme.Sizing, shape theme.Shape) metrics {
	return metrics{
		body:    s.BaseFontSize,
		small:   s.BaseFontSize * smallFactor,
		item:    s.BaseFontSize * itemFactor,
		heading: s.BaseFontSize * s.HeadingScale * headingFactor,
		name:    s.BaseFontSize * s.HeadingScale * nameScale[shape],
		title:   s.BaseFontSize * s.HeadingScale * titleFactor,
		gap:     sectionGapBase * s.Spacing,
		itemGap: itemGapBase * s.Spacing,
		lineGap: lineGapBase * s.Spacing,
	}
}

func (r *renderer) metricsFor(key sections.Key) metrics {
	return deriveMetrics(r.theme.Effective(key), r.theme.Shape)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func pt(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64) + "pt"
}

func px(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64) + "px"
}
