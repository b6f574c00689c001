package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artdeck/artdeck-go/internal/apperror"
	"github.com/artdeck/artdeck-go/internal/document"
)

func TestEnvelope_Room(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		want    int64
		wantErr bool
	}{
		{"number", `{"type":"join_room","roomId":12}`, 12, false},
		{"numeric string", `{"type":"join_room","roomId":"12"}`, 12, false},
		{"missing", `{"type":"join_room"}`, 0, true},
		{"non-numeric", `{"type":"join_room","roomId":"abc"}`, 0, true},
		{"zero", `{"type":"join_room","roomId":0}`, 0, true},
		{"fraction", `{"type":"join_room","roomId":1.5}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.frame))
			require.NoError(t, err)

			got, err := env.Room()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrInvalidRoom)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json`))
	assert.ErrorIs(t, err, apperror.ErrMalformedMessage)

	_, err = DecodeEnvelope([]byte(`{"roomId":1}`))
	assert.ErrorIs(t, err, apperror.ErrMalformedMessage)

	_, err = DecodeEnvelope([]byte(`{"type":"chat","roomId":1,"message":{"action":"clear"}}`))
	assert.ErrorIs(t, err, apperror.ErrMalformedMessage, "message must be string-encoded")
}

func TestNewChat_Encode(t *testing.T) {
	data, err := NewChat(3, `{"action":"clear"}`).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat","roomId":3,"message":"{\"action\":\"clear\"}"}`, string(data))

	data, err = NewJoin(9).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"join_room","roomId":9}`, string(data))
}

func TestEditEvent_RoundTrip(t *testing.T) {
	s := document.Shape{ID: "s1", Geometry: document.Circle{CenterX: 1, CenterY: 2, Radius: 3}}

	msg, err := NewDelete(s).Encode()
	require.NoError(t, err)

	ev, err := ParseEditEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, ev.Action)
	assert.Equal(t, "s1", ev.ShapeID)
	require.NotNil(t, ev.Shape)
	assert.Equal(t, s, *ev.Shape)
}

func TestParseEditEvent_Malformed(t *testing.T) {
	_, err := ParseEditEvent("{broken")
	assert.ErrorIs(t, err, apperror.ErrMalformedMessage)

	_, err = ParseEditEvent(`{"action":"create","shape":{"type":"blob"}}`)
	assert.ErrorIs(t, err, apperror.ErrMalformedMessage)

	ev, err := ParseEditEvent(`{"action":"clear"}`)
	require.NoError(t, err)
	assert.Equal(t, NewClear(), ev)
}

func TestParseEditEvent_ShapeWithoutActionIsCreate(t *testing.T) {
	ev, err := ParseEditEvent(`{"shape":{"type":"rect","id":"s1","x":1,"y":2,"width":3,"height":4}}`)
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, ev.Action)
	require.NotNil(t, ev.Shape)
	assert.Equal(t, "s1", ev.Shape.ID)

	ev, err = ParseEditEvent(`{}`)
	require.NoError(t, err)
	assert.Equal(t, Action(""), ev.Action, "no shape, no implied action")
}
