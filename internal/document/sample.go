package document

import "github.com/artdeck/artdeck-go/internal/geometry"

// NewSampleDocument returns a small drawing with one shape of every variant.
// The bridge loads it for offline previews.
func NewSampleDocument() *Document {
	d := New()
	d.Insert(Shape{ID: "sample_rect", Geometry: Rectangle{X: 40, Y: 40, Width: 160, Height: 100}})
	d.Insert(Shape{ID: "sample_circle", Geometry: Circle{CenterX: 320, CenterY: 90, Radius: 50}})
	d.Insert(Shape{ID: "sample_rhombus", Geometry: Rhombus{X: 420, Y: 40, Width: 120, Height: 100}})
	d.Insert(Shape{ID: "sample_line", Geometry: Line{X1: 40, Y1: 200, X2: 200, Y2: 260}})
	d.Insert(Shape{ID: "sample_arrow", Geometry: Arrow{X1: 260, Y1: 260, X2: 380, Y2: 200}})
	d.Insert(Shape{ID: "sample_pencil", Geometry: Freehand{Points: []geometry.Point{
		{X: 440, Y: 220}, {X: 460, Y: 240}, {X: 485, Y: 232}, {X: 510, Y: 260},
	}}})
	d.Insert(Shape{ID: "sample_text", Geometry: Text{X: 40, Y: 320, Content: "Hello, room"}})
	return d
}
