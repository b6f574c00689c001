// Package protocol defines the JSON messages exchanged between drawing
// clients and the room relay.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/artdeck/artdeck-go/internal/apperror"
	"github.com/artdeck/artdeck-go/internal/document"
)

const (
	TypeJoinRoom  = "join_room"
	TypeLeaveRoom = "leave_room"
	TypeChat      = "chat"
)

// Envelope is the outer wire message in both directions. RoomID stays raw so
// a bad room reference can be told apart from a malformed envelope; clients
// send it as a number or a numeric string.
type Envelope struct {
	Type    string          `json:"type"`
	RoomID  json.RawMessage `json:"roomId,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DecodeEnvelope parses one inbound frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, apperror.Malformed("envelope", err)
	}
	if env.Type == "" {
		return Envelope{}, apperror.Malformed("type", nil)
	}
	return env, nil
}

// Room parses the room reference. Room ids are positive integers.
func (e Envelope) Room() (int64, error) {
	raw := bytes.TrimSpace(e.RoomID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, apperror.InvalidRoom("")
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, apperror.InvalidRoom(string(raw))
		}
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidRoom(text)
	}
	return id, nil
}

func roomJSON(roomID int64) json.RawMessage {
	return json.RawMessage(strconv.FormatInt(roomID, 10))
}

func NewJoin(roomID int64) Envelope {
	return Envelope{Type: TypeJoinRoom, RoomID: roomJSON(roomID)}
}

func NewLeave(roomID int64) Envelope {
	return Envelope{Type: TypeLeaveRoom, RoomID: roomJSON(roomID)}
}

// NewChat wraps an already encoded edit event for a room.
func NewChat(roomID int64, message string) Envelope {
	return Envelope{Type: TypeChat, RoomID: roomJSON(roomID), Message: message}
}

// Encode serializes the envelope for the wire.
func (e Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return data, nil
}

type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
	ActionClear  Action = "clear"
)

// EditEvent is the payload carried, string-encoded, in a chat message.
type EditEvent struct {
	Action  Action          `json:"action"`
	Shape   *document.Shape `json:"shape,omitempty"`
	ShapeID string          `json:"shapeId,omitempty"`
}

// ParseEditEvent decodes a chat message body. It fails on anything that is
// not a JSON object or whose shape does not decode. A body with a shape and
// no action is a create, which is how older clients send new shapes.
func ParseEditEvent(message string) (EditEvent, error) {
	var ev EditEvent
	if err := json.Unmarshal([]byte(message), &ev); err != nil {
		return EditEvent{}, apperror.Malformed("message", err)
	}
	if ev.Action == "" && ev.Shape != nil {
		ev.Action = ActionCreate
	}
	return ev, nil
}

// Encode serializes the event into the string form carried by a chat.
func (ev EditEvent) Encode() (string, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", ev.Action, err)
	}
	return string(data), nil
}

func NewCreate(s document.Shape) EditEvent {
	return EditEvent{Action: ActionCreate, Shape: &s}
}

// NewDelete carries both the id and the body, so receivers without the id
// can still match by content.
func NewDelete(s document.Shape) EditEvent {
	return EditEvent{Action: ActionDelete, ShapeID: s.ID, Shape: &s}
}

func NewClear() EditEvent {
	return EditEvent{Action: ActionClear}
}
