package core

// Rect is an axis-aligned rectangle in device-independent pixels.
type Rect struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) Width() float64 { return r.Right - r.Left }

// Side selects the first or the last line box of an element.
type Side uint8

const (
	SideTop Side = iota
	SideBottom
)

// Metrics converts terminal cells into pixels.
type Metrics struct {
	CellWidth  float64
	LineHeight float64
}

// DefaultMetrics approximates a common monospace terminal font.
var DefaultMetrics = Metrics{CellWidth: 8, LineHeight: 20}

func normalizeMetrics(m Metrics) Metrics {
	if m.CellWidth <= 0 {
		m.CellWidth = DefaultMetrics.CellWidth
	}
	if m.LineHeight <= 0 {
		m.LineHeight = DefaultMetrics.LineHeight
	}
	return m
}
