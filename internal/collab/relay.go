package collab

import (
	"context"
	"errors"
	"log/slog"

	"github.com/artdeck/artdeck-go/internal/apperror"
	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/store"
)

// HandleMessage processes one inbound frame from sender. It returns only
// after the event has been persisted and broadcast, so a connection's events
// are handled in the order they arrived. The returned error is informational;
// no error closes the connection.
func (h *Hub) HandleMessage(ctx context.Context, sender *Client, data []byte) error {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		slog.Warn("dropping malformed frame", "user", sender.UserID, "error", err)
		return err
	}

	roomID, err := env.Room()
	if err != nil {
		slog.Warn("dropping message with invalid room", "user", sender.UserID, "type", env.Type, "error", err)
		return err
	}

	switch env.Type {
	case protocol.TypeJoinRoom:
		h.Join(sender, roomID)
	case protocol.TypeLeaveRoom:
		h.Leave(sender, roomID)
	case protocol.TypeChat:
		return h.relay(ctx, sender, roomID, env.Message)
	default:
		slog.Warn("unknown message type", "type", env.Type, "user", sender.UserID)
		return apperror.Malformed("type", errors.New(env.Type))
	}
	return nil
}

// relay persists an edit event and then broadcasts it verbatim to the room,
// sender included. A persistence failure skips the broadcast so live clients
// never get ahead of the log.
func (h *Hub) relay(ctx context.Context, sender *Client, roomID int64, message string) error {
	ev, err := protocol.ParseEditEvent(message)
	if err != nil {
		slog.Warn("dropping malformed edit event", "user", sender.UserID, "room", roomID, "error", err)
		return err
	}

	room := h.room(roomID)
	room.relayMu.Lock()
	defer room.relayMu.Unlock()

	// In-flight writes belong to the room, so they outlive the connection.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.persistTimeout)
	defer cancel()

	if err := h.persist(persistCtx, sender.UserID, roomID, ev, message); err != nil {
		slog.Error("persisting edit event", "user", sender.UserID, "room", roomID, "action", ev.Action, "error", err)
		return err
	}

	out, err := protocol.NewChat(roomID, message).Encode()
	if err != nil {
		slog.Error("encoding broadcast", "room", roomID, "error", err)
		return err
	}
	n := h.Broadcast(roomID, out)
	slog.Debug("relayed edit event", "user", sender.UserID, "room", roomID, "action", ev.Action, "recipients", n)
	return nil
}

func (h *Hub) persist(ctx context.Context, userID string, roomID int64, ev protocol.EditEvent, message string) error {
	switch ev.Action {
	case protocol.ActionDelete:
		return h.persistDelete(ctx, roomID, ev)
	case protocol.ActionClear:
		n, err := h.events.DeleteAll(ctx, roomID)
		if err != nil {
			return apperror.Persistence("clear room", err)
		}
		slog.Info("cleared room", "room", roomID, "removed", n)
		return nil
	case protocol.ActionCreate:
		if ev.Shape == nil {
			return apperror.Malformed("shape", nil)
		}
		key, err := document.ContentKey(*ev.Shape)
		if err != nil {
			return apperror.Malformed("shape", err)
		}
		p := store.AppendParams{
			RoomID:     roomID,
			UserID:     userID,
			Message:    message,
			ShapeID:    ev.Shape.ID,
			ContentKey: key,
		}
		if _, err := h.events.Append(ctx, p); err != nil {
			return apperror.Persistence("append event", err)
		}
		return nil
	default:
		return apperror.Malformed("action", errors.New(string(ev.Action)))
	}
}

// persistDelete removes log entries by shape id when the event has one and
// falls back to structural content otherwise.
func (h *Hub) persistDelete(ctx context.Context, roomID int64, ev protocol.EditEvent) error {
	switch {
	case ev.ShapeID != "":
		n, err := h.events.DeleteByShapeID(ctx, roomID, ev.ShapeID)
		if err != nil {
			return apperror.Persistence("delete by shape id", err)
		}
		slog.Debug("deleted shape events", "room", roomID, "shape", ev.ShapeID, "removed", n)
	case ev.Shape != nil:
		key, err := document.ContentKey(*ev.Shape)
		if err != nil {
			return apperror.Malformed("shape", err)
		}
		n, err := h.events.DeleteByContent(ctx, roomID, key)
		if err != nil {
			return apperror.Persistence("delete by content", err)
		}
		slog.Debug("deleted shape events by content", "room", roomID, "removed", n)
	}
	return nil
}
