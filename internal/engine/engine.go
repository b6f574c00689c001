// Package engine is the drawing client: it turns pointer input into local
// edits with undo history, emits edit events for the relay, and applies the
// events the relay sends back.
//
// An Engine is not safe for concurrent use. Drive it from one goroutine.
package engine

import (
	"log/slog"
	"math"
	"strings"

	"github.com/artdeck/artdeck-go/internal/apperror"
	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/geometry"
	"github.com/artdeck/artdeck-go/internal/history"
	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/typeid"
)

// EraseRadius is the eraser size in screen pixels.
const EraseRadius = 8.0

// Options configure an Engine. Only RoomID is required.
type Options struct {
	RoomID int64

	// Outbound receives every edit event produced by a local action, already
	// wrapped for RoomID.
	Outbound func(protocol.Envelope)

	// OnChange receives the document's shapes after every mutation.
	OnChange func([]document.Shape)

	// NewID generates local shape ids. Defaults to prefixed typeids.
	NewID func() string

	HistoryDepth int
}

// Engine owns one room's document, its undo history and the tool state.
type Engine struct {
	roomID   int64
	outbound func(protocol.Envelope)
	onChange func([]document.Shape)
	newID    func() string

	doc     *document.Document
	history *history.Manager
	view    Viewport

	tool    Tool
	gesture gesture
}

// gesture is the pointer state between press and release.
type gesture struct {
	active     bool
	start      geometry.Point // document space
	last       geometry.Point // document space
	lastScreen geometry.Point
	stroke     []geometry.Point // pencil and erase
	selectedID string
	moved      bool
}

// New returns an engine with an empty document and the select tool active.
func New(opts Options) *Engine {
	depth := opts.HistoryDepth
	if depth <= 0 {
		depth = history.DefaultDepth
	}
	newID := opts.NewID
	if newID == nil {
		newID = typeid.NewShapeID
	}
	return &Engine{
		roomID:   opts.RoomID,
		outbound: opts.Outbound,
		onChange: opts.OnChange,
		newID:    newID,
		doc:      document.New(),
		history:  history.New(depth),
		view:     NewViewport(),
		tool:     ToolSelect,
	}
}

// --- Commands ---

// SetTool switches the active tool and abandons any gesture in progress.
func (e *Engine) SetTool(t Tool) {
	e.tool = t
	e.gesture = gesture{}
}

// Zoom scales the view around a screen point.
func (e *Engine) Zoom(factor float64, at geometry.Point) {
	e.view.Zoom(factor, at)
}

// CommitText places a text shape at a screen point. Blank content is ignored.
func (e *Engine) CommitText(at geometry.Point, content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	p := e.view.ToDocument(at)
	e.create(document.Shape{
		ID:       e.newID(),
		Geometry: document.Text{X: p.X, Y: p.Y, Content: content},
	})
	return true
}

// DeleteShape removes one shape by local id and tells the room. A missing id
// returns a stale-reference error and changes nothing.
func (e *Engine) DeleteShape(id string) error {
	s, ok := e.doc.Get(id)
	if !ok {
		return apperror.Stale(id)
	}
	e.history.Record(e.doc)
	e.doc.RemoveByID(id)
	e.emit(protocol.NewDelete(s))
	e.changed()
	return nil
}

// Clear empties the document and tells the room.
func (e *Engine) Clear() {
	e.history.Record(e.doc)
	e.doc.Clear()
	e.emit(protocol.NewClear())
	e.changed()
}

// Undo restores the previous local state. It never emits an event.
func (e *Engine) Undo() bool {
	if !e.history.Undo(e.doc) {
		return false
	}
	e.changed()
	return true
}

// Redo reapplies an undone state. It never emits an event.
func (e *Engine) Redo() bool {
	if !e.history.Redo(e.doc) {
		return false
	}
	e.changed()
	return true
}

// --- Queries ---

func (e *Engine) RoomID() int64 { return e.roomID }
func (e *Engine) Tool() Tool { return e.tool }
func (e *Engine) Viewport() Viewport { return e.view }
func (e *Engine) Shapes() []document.Shape { return e.doc.All() }
func (e *Engine) Shape(id string) (document.Shape, bool) { return e.doc.Get(id) }
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// EraseThreshold is the eraser radius in document units at the current zoom.
func (e *Engine) EraseThreshold() float64 {
	return EraseRadius / e.view.Scale
}

// Selection returns the id of the shape being dragged by the select tool.
func (e *Engine) Selection() string {
	return e.gesture.selectedID
}

// SelectionBounds returns the bounding box of the selected shape.
func (e *Engine) SelectionBounds() geometry.Rect {
	if s, ok := e.doc.Get(e.gesture.selectedID); ok {
		return s.Bounds()
	}
	return geometry.Rect{}
}

// --- internals ---

// create records history, inserts s and emits it.
func (e *Engine) create(s document.Shape) {
	e.history.Record(e.doc)
	e.doc.Insert(s)
	e.emit(protocol.NewCreate(s))
	e.changed()
}

func (e *Engine) emit(ev protocol.EditEvent) {
	if e.outbound == nil {
		return
	}
	msg, err := ev.Encode()
	if err != nil {
		slog.Error("encoding edit event", "action", ev.Action, "error", err)
		return
	}
	e.outbound(protocol.NewChat(e.roomID, msg))
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange(e.doc.All())
	}
}

func sameSpot(a, b geometry.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
