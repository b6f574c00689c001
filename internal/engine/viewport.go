package engine

import "github.com/artdeck/artdeck-go/internal/geometry"

const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Viewport maps document coordinates to screen coordinates:
// screen = scale*doc + pan.
type Viewport struct {
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
	Scale float64 `json:"scale"`
}

func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

// Matrix returns the document-to-screen transform.
func (v Viewport) Matrix() geometry.Matrix2D {
	return geometry.Translate(v.PanX, v.PanY).Multiply(geometry.Scale(v.Scale))
}

func (v Viewport) ToDocument(screen geometry.Point) geometry.Point {
	return v.Matrix().Invert().Apply(screen)
}

func (v Viewport) ToScreen(doc geometry.Point) geometry.Point {
	return v.Matrix().Apply(doc)
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Zoom multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the document point under the screen point at fixed.
func (v *Viewport) Zoom(factor float64, at geometry.Point) {
	if factor <= 0 {
		return
	}
	anchor := v.ToDocument(at)
	v.Scale = min(max(v.Scale*factor, MinScale), MaxScale)
	v.PanX = at.X - anchor.X*v.Scale
	v.PanY = at.Y - anchor.Y*v.Scale
}
