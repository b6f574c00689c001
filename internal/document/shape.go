package document

import (
	"slices"
	"unicode/utf8"

	"github.com/artdeck/artdeck-go/internal/geometry"
)

// Kind is the wire tag of a shape variant.
type Kind string

const (
	KindRectangle Kind = "rect"
	KindCircle    Kind = "circle"
	KindFreehand  Kind = "pencil"
	KindText      Kind = "text"
	KindLine      Kind = "line"
	KindRhombus   Kind = "rhombus"
	KindArrow     Kind = "arrow"
)

// Geometry is the closed set of shape variants. Only types in this package
// implement it.
type Geometry interface {
	Kind() Kind
	Bounds() geometry.Rect
	clone() Geometry
}

type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Circle struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

// Freehand is a pencil stroke.
type Freehand struct {
	Points []geometry.Point `json:"points"`
}

type Text struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
}

type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type Rhombus struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Arrow struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Freehand) Kind() Kind  { return KindFreehand }
func (Text) Kind() Kind      { return KindText }
func (Line) Kind() Kind      { return KindLine }
func (Rhombus) Kind() Kind   { return KindRhombus }
func (Arrow) Kind() Kind     { return KindArrow }

func (g Rectangle) Bounds() geometry.Rect {
	return geometry.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

func (g Circle) Bounds() geometry.Rect {
	return geometry.Rect{
		X:      g.CenterX - g.Radius,
		Y:      g.CenterY - g.Radius,
		Width:  g.Radius * 2,
		Height: g.Radius * 2,
	}
}

func (g Freehand) Bounds() geometry.Rect {
	return geometry.BoundsOf(g.Points)
}

// Text metrics belong to the renderer; this box assumes a 16px sans font.
func (g Text) Bounds() geometry.Rect {
	return geometry.Rect{
		X:      g.X - 2,
		Y:      g.Y - 12,
		Width:  float64(utf8.RuneCountInString(g.Content))*7 + 4,
		Height: 16,
	}
}

func (g Line) Bounds() geometry.Rect  { return segmentBounds(g.Segment()) }
func (g Arrow) Bounds() geometry.Rect { return segmentBounds(g.Segment()) }

func (g Rhombus) Bounds() geometry.Rect {
	return geometry.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

func (g Line) Segment() geometry.Segment  { return geometry.Seg(g.X1, g.Y1, g.X2, g.Y2) }
func (g Arrow) Segment() geometry.Segment { return geometry.Seg(g.X1, g.Y1, g.X2, g.Y2) }

func segmentBounds(s geometry.Segment) geometry.Rect {
	return geometry.BoundsOf([]geometry.Point{s.A, s.B})
}

func (g Rectangle) clone() Geometry { return g }
func (g Circle) clone() Geometry    { return g }
func (g Text) clone() Geometry      { return g }
func (g Line) clone() Geometry      { return g }
func (g Rhombus) clone() Geometry   { return g }
func (g Arrow) clone() Geometry     { return g }

func (g Freehand) clone() Geometry {
	return Freehand{Points: slices.Clone(g.Points)}
}

// Shape is one drawable primitive plus its identity. ID is the client-side
// local id; LogID is the event log row id and stays zero until the shape has
// been read back from the durable log.
type Shape struct {
	ID       string
	LogID    int64
	Geometry Geometry
}

// Kind returns the variant tag, or "" for a shape without geometry.
func (s Shape) Kind() Kind {
	if s.Geometry == nil {
		return ""
	}
	return s.Geometry.Kind()
}

// Bounds returns the shape's bounding box.
func (s Shape) Bounds() geometry.Rect {
	if s.Geometry == nil {
		return geometry.Rect{}
	}
	return s.Geometry.Bounds()
}

// Clone returns a deep copy that shares no memory with s.
func (s Shape) Clone() Shape {
	if s.Geometry != nil {
		s.Geometry = s.Geometry.clone()
	}
	return s
}

// Translate returns a copy of the shape moved by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	out := s.Clone()
	switch g := out.Geometry.(type) {
	case Rectangle:
		g.X, g.Y = g.X+dx, g.Y+dy
		out.Geometry = g
	case Circle:
		g.CenterX, g.CenterY = g.CenterX+dx, g.CenterY+dy
		out.Geometry = g
	case Freehand:
		for i := range g.Points {
			g.Points[i].X += dx
			g.Points[i].Y += dy
		}
		out.Geometry = g
	case Text:
		g.X, g.Y = g.X+dx, g.Y+dy
		out.Geometry = g
	case Line:
		g.X1, g.Y1, g.X2, g.Y2 = g.X1+dx, g.Y1+dy, g.X2+dx, g.Y2+dy
		out.Geometry = g
	case Rhombus:
		g.X, g.Y = g.X+dx, g.Y+dy
		out.Geometry = g
	case Arrow:
		g.X1, g.Y1, g.X2, g.Y2 = g.X1+dx, g.Y1+dy, g.X2+dx, g.Y2+dy
		out.Geometry = g
	}
	return out
}

// StructurallyEqual compares the variant and its defining fields, ignoring
// both ids. It is the fallback match for deletes that carry no id.
func StructurallyEqual(a, b Shape) bool {
	if a.Geometry == nil || b.Geometry == nil {
		return false
	}
	switch ga := a.Geometry.(type) {
	case Freehand:
		gb, ok := b.Geometry.(Freehand)
		return ok && slices.Equal(ga.Points, gb.Points)
	case Rectangle, Circle, Text, Line, Rhombus, Arrow:
		return a.Geometry == b.Geometry
	default:
		return false
	}
}
