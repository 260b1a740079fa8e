// Package document renders the fixed-page visual persona artifact: one
// landscape A4 page with four equal columns. Layout math lives here, apart
// from drawing, so column geometry is testable without producing a PDF.
package document

// Page geometry in millimeters.
const (
	pageWidth  = 297.0
	pageHeight = 210.0
	margin     = 10.0

	columnCount = 4
	columnGap   = 8.0

	// indicatorWidth is the width of the marker on a personality track.
	indicatorWidth = 5.0
)

// ContentWidth is the usable width between the page margins.
func ContentWidth() float64 {
	return pageWidth - 2*margin
}

// ColumnWidth is the width of one of the four equal columns.
func ColumnWidth() float64 {
	return (ContentWidth() - (columnCount-1)*columnGap) / columnCount
}

// ColumnX returns the left edge of column i (0-based).
func ColumnX(i int) float64 {
	return margin + float64(i)*(ColumnWidth()+columnGap)
}

// IndicatorOffset returns the horizontal offset of the indicator on a
// personality track. A value of 0 pins the indicator to the left edge, 1 to
// the right edge; out-of-range values are clamped.
func IndicatorOffset(value, trackWidth float64) float64 {
	return clamp01(value) * (trackWidth - indicatorWidth)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
