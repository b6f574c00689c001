package engine

import (
	"math"

	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/geometry"
	"github.com/artdeck/artdeck-go/internal/protocol"
)

// PointerDown starts a gesture at a screen point.
func (e *Engine) PointerDown(screen geometry.Point) {
	p := e.view.ToDocument(screen)
	e.gesture = gesture{
		active:     true,
		start:      p,
		last:       p,
		lastScreen: screen,
	}

	switch e.tool {
	case ToolPencil, ToolErase:
		e.gesture.stroke = []geometry.Point{p}
	case ToolSelect:
		if s, ok := e.doc.TopmostAt(p, e.EraseThreshold()); ok && s.ID != "" {
			e.gesture.selectedID = s.ID
		}
	}
}

// PointerMove extends the gesture. Moves without a press are ignored.
func (e *Engine) PointerMove(screen geometry.Point) {
	g := &e.gesture
	if !g.active {
		return
	}
	p := e.view.ToDocument(screen)

	switch e.tool {
	case ToolPencil, ToolErase:
		g.stroke = append(g.stroke, p)
	case ToolPan:
		e.view.Pan(screen.X-g.lastScreen.X, screen.Y-g.lastScreen.Y)
		// The document point under the cursor is unchanged by a pan.
		p = e.view.ToDocument(screen)
	case ToolSelect:
		e.dragSelection(p)
	}

	g.last = p
	g.lastScreen = screen
}

// dragSelection translates the selected shape by the pointer delta. History
// is recorded once, before the first move.
func (e *Engine) dragSelection(p geometry.Point) {
	g := &e.gesture
	dx, dy := p.X-g.last.X, p.Y-g.last.Y
	if g.selectedID == "" || (dx == 0 && dy == 0) {
		return
	}
	s, ok := e.doc.Get(g.selectedID)
	if !ok {
		// A peer deleted it mid-drag.
		g.selectedID = ""
		return
	}
	if !g.moved {
		e.history.Record(e.doc)
		g.moved = true
	}
	e.doc.Replace(s.ID, s.Translate(dx, dy))
	e.changed()
}

// PointerUp completes the gesture and commits its edit, if any.
func (e *Engine) PointerUp(screen geometry.Point) {
	if !e.gesture.active {
		return
	}
	e.PointerMove(screen)
	g := e.gesture
	e.gesture = gesture{selectedID: g.selectedID}

	switch e.tool {
	case ToolPencil:
		if len(g.stroke) > 0 {
			e.create(document.Shape{ID: e.newID(), Geometry: document.Freehand{Points: g.stroke}})
		}
	case ToolErase:
		e.erase(g.stroke)
	case ToolSelect:
		if g.moved {
			if s, ok := e.doc.Get(g.selectedID); ok {
				e.emit(protocol.NewCreate(s))
			}
		}
	case ToolClear:
		e.Clear()
	default:
		if !e.tool.draws() || sameSpot(g.start, g.last) {
			return
		}
		if geom := shapeFromDrag(e.tool, g.start, g.last); geom != nil {
			e.create(document.Shape{ID: e.newID(), Geometry: geom})
		}
	}
}

// erase removes every shape the stroke touches and emits one delete per
// shape. Shapes are matched by local id when they have one and by content
// otherwise.
func (e *Engine) erase(stroke []geometry.Point) {
	hits := e.doc.HitTest(stroke, e.EraseThreshold())
	if len(hits) == 0 {
		return
	}

	e.history.Record(e.doc)
	for _, s := range hits {
		if s.ID != "" {
			e.doc.RemoveByID(s.ID)
		} else {
			e.doc.RemoveMatching(func(other document.Shape) bool {
				return other.ID == "" && document.StructurallyEqual(other, s)
			})
		}
		e.emit(protocol.NewDelete(s))
	}
	e.changed()
}

// Preview returns the shape the current drag would commit, for the renderer.
func (e *Engine) Preview() (document.Shape, bool) {
	g := e.gesture
	if !g.active {
		return document.Shape{}, false
	}
	switch {
	case e.tool == ToolPencil:
		return document.Shape{Geometry: document.Freehand{Points: append([]geometry.Point(nil), g.stroke...)}}, true
	case e.tool.draws():
		if geom := shapeFromDrag(e.tool, g.start, g.last); geom != nil {
			return document.Shape{Geometry: geom}, true
		}
	}
	return document.Shape{}, false
}

// EraseStroke returns the erase stroke in progress.
func (e *Engine) EraseStroke() []geometry.Point {
	if !e.gesture.active || e.tool != ToolErase {
		return nil
	}
	return append([]geometry.Point(nil), e.gesture.stroke...)
}

// shapeFromDrag builds the geometry a box or segment tool commits for a drag
// from start to end, both in document space.
func shapeFromDrag(t Tool, start, end geometry.Point) document.Geometry {
	x, y := math.Min(start.X, end.X), math.Min(start.Y, end.Y)
	w, h := math.Abs(end.X-start.X), math.Abs(end.Y-start.Y)

	switch t {
	case ToolRect:
		return document.Rectangle{X: x, Y: y, Width: w, Height: h}
	case ToolRhombus:
		return document.Rhombus{X: x, Y: y, Width: w, Height: h}
	case ToolCircle:
		r := math.Max(w, h) / 2
		return document.Circle{CenterX: x + r, CenterY: y + r, Radius: r}
	case ToolLine:
		return document.Line{X1: start.X, Y1: start.Y, X2: end.X, Y2: end.Y}
	case ToolArrow:
		return document.Arrow{X1: start.X, Y1: start.Y, X2: end.X, Y2: end.Y}
	}
	return nil
}
