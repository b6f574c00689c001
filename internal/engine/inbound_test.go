package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artdeck/artdeck-go/internal/apperror"
	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/protocol"
)

func TestApply_CreateIsIdempotent(t *testing.T) {
	e, rec := newTestEngine(t)
	ev := protocol.NewCreate(rect("s1", 10, 10, 50, 40))

	require.NoError(t, e.Apply(ev))
	once := e.Shapes()
	require.NoError(t, e.Apply(ev))

	assert.Equal(t, once, e.Shapes())
	assert.Empty(t, rec.events, "inbound edits are not re-emitted")
	assert.False(t, e.CanUndo(), "inbound edits skip history")
}

func TestApply_CreateUpdatesExistingID(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s1", 0, 0, 1, 1))))
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s2", 5, 5, 1, 1))))
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s1", 9, 9, 1, 1))))

	assert.Equal(t, []document.Shape{rect("s1", 9, 9, 1, 1), rect("s2", 5, 5, 1, 1)}, e.Shapes())
}

func TestApply_DeleteByIDPrecedence(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s1", 0, 0, 10, 10))))
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s2", 0, 0, 10, 10))))

	require.NoError(t, e.Apply(protocol.NewDelete(rect("s1", 0, 0, 10, 10))))
	assert.Equal(t, []document.Shape{rect("s2", 0, 0, 10, 10)}, e.Shapes(), "structural twin with another id survives")
}

func TestApply_DeleteByContent(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s1", 0, 0, 10, 10))))
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s2", 1, 1, 10, 10))))

	target := rect("", 0, 0, 10, 10)
	require.NoError(t, e.Apply(protocol.EditEvent{Action: protocol.ActionDelete, Shape: &target}))
	assert.Equal(t, []document.Shape{rect("s2", 1, 1, 10, 10)}, e.Shapes())
}

func TestApply_StaleAndMalformed(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.Apply(protocol.EditEvent{Action: protocol.ActionDelete, ShapeID: "ghost"})
	assert.ErrorIs(t, err, apperror.ErrStaleReference)

	assert.ErrorIs(t, e.Apply(protocol.EditEvent{Action: protocol.ActionCreate}), apperror.ErrMalformedMessage)
	assert.ErrorIs(t, e.Apply(protocol.EditEvent{Action: protocol.ActionDelete}), apperror.ErrMalformedMessage)
	assert.ErrorIs(t, e.Apply(protocol.EditEvent{Action: "rotate"}), apperror.ErrMalformedMessage)
}

func TestApply_Clear(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Apply(protocol.NewCreate(rect("s1", 0, 0, 1, 1))))
	require.NoError(t, e.Apply(protocol.NewClear()))
	assert.Empty(t, e.Shapes())
}

func TestHandleInbound_MalformedThenValid(t *testing.T) {
	e, _ := newTestEngine(t)

	bad, err := protocol.NewChat(1, "{oops").Encode()
	require.NoError(t, err)
	assert.ErrorIs(t, e.HandleInbound(bad), apperror.ErrMalformedMessage)
	assert.ErrorIs(t, e.HandleInbound([]byte("nope")), apperror.ErrMalformedMessage)

	require.NoError(t, e.HandleInbound(chat(t, 1, protocol.NewCreate(rect("s1", 10, 10, 50, 40)))))
	assert.Equal(t, []document.Shape{rect("s1", 10, 10, 50, 40)}, e.Shapes())
}

func TestHandleInbound_Filters(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.HandleInbound(chat(t, 2, protocol.NewCreate(rect("other", 0, 0, 1, 1)))))
	join, err := protocol.NewJoin(1).Encode()
	require.NoError(t, err)
	require.NoError(t, e.HandleInbound(join))
	assert.Empty(t, e.Shapes())

	// Stale deletes are expected under redelivery and are not errors.
	require.NoError(t, e.HandleInbound(chat(t, 1, protocol.EditEvent{Action: protocol.ActionDelete, ShapeID: "ghost"})))
}

func TestHandleInbound_SelfEcho(t *testing.T) {
	e, rec := newTestEngine(t)
	e.SetTool(ToolRect)
	drag(e, pt(0, 0), pt(10, 10))
	before := e.Shapes()

	// The relay echoes the sender's own event back.
	require.Len(t, rec.events, 1)
	require.NoError(t, e.HandleInbound(chat(t, 1, rec.events[0])))
	assert.Equal(t, before, e.Shapes())
}

func TestHandleInbound_ShapeWithoutAction(t *testing.T) {
	e, _ := newTestEngine(t)

	frame, err := protocol.NewChat(1, `{"shape":{"type":"rect","id":"s1","x":1,"y":1,"width":2,"height":2}}`).Encode()
	require.NoError(t, err)
	require.NoError(t, e.HandleInbound(frame))
	assert.Equal(t, []document.Shape{rect("s1", 1, 1, 2, 2)}, e.Shapes())
}
