package engine

import (
	"errors"
	"log/slog"

	"github.com/artdeck/artdeck-go/internal/apperror"
	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/store"
)

// HandleInbound applies one frame received from the relay. Frames that are
// not chats for this engine's room are ignored. A malformed frame is logged
// and dropped; the returned error only reports why.
func (e *Engine) HandleInbound(data []byte) error {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		slog.Warn("dropping malformed frame", "room", e.roomID, "error", err)
		return err
	}
	if env.Type != protocol.TypeChat {
		return nil
	}
	roomID, err := env.Room()
	if err != nil {
		slog.Warn("dropping frame with invalid room", "error", err)
		return err
	}
	if roomID != e.roomID {
		return nil
	}

	ev, err := protocol.ParseEditEvent(env.Message)
	if err != nil {
		slog.Warn("dropping malformed edit event", "room", e.roomID, "error", err)
		return err
	}
	if err := e.Apply(ev); err != nil {
		if errors.Is(err, apperror.ErrStaleReference) {
			slog.Debug("ignoring stale edit", "room", e.roomID, "error", err)
			return nil
		}
		slog.Warn("dropping edit event", "room", e.roomID, "error", err)
		return err
	}
	return nil
}

// Apply performs a peer's edit on the document without recording history or
// emitting anything. Applying the same create twice leaves the document as
// applying it once. A delete whose target is absent returns a stale-reference
// error and changes nothing.
func (e *Engine) Apply(ev protocol.EditEvent) error {
	switch ev.Action {
	case protocol.ActionCreate:
		if ev.Shape == nil || ev.Shape.Geometry == nil {
			return apperror.Malformed("shape", nil)
		}
		e.doc.Insert(*ev.Shape)

	case protocol.ActionDelete:
		switch {
		case ev.ShapeID != "":
			if !e.doc.RemoveByID(ev.ShapeID) {
				return apperror.Stale(ev.ShapeID)
			}
		case ev.Shape != nil:
			target := *ev.Shape
			if e.doc.RemoveMatching(func(s document.Shape) bool {
				return document.StructurallyEqual(s, target)
			}) == 0 {
				return apperror.Stale("(content match)")
			}
		default:
			return apperror.Malformed("delete target", nil)
		}

	case protocol.ActionClear:
		e.doc.Clear()

	default:
		return apperror.Malformed("action", errors.New(string(ev.Action)))
	}

	e.changed()
	return nil
}

// Hydrate replaces the document with the shapes recorded in a room's log and
// resets history. entries may be in any order; they are replayed oldest
// first and each shape keeps its log id. It returns the number of shapes
// loaded.
func (e *Engine) Hydrate(entries []store.Entry) int {
	var shapes []document.Shape
	for _, entry := range store.Chronological(entries) {
		ev, err := protocol.ParseEditEvent(entry.Message)
		if err != nil || ev.Shape == nil || ev.Shape.Geometry == nil {
			slog.Warn("skipping unreadable log entry", "room", e.roomID, "entry", entry.ID)
			continue
		}
		s := *ev.Shape
		s.LogID = entry.ID
		shapes = append(shapes, s)
	}

	e.Load(shapes)
	return len(shapes)
}

// Load replaces the document with shapes, in order, and resets history.
// Nothing is emitted.
func (e *Engine) Load(shapes []document.Shape) {
	e.doc.Clear()
	e.history.Reset()
	e.gesture = gesture{}
	for _, s := range shapes {
		e.doc.Insert(s)
	}
	e.changed()
}
