package relay

import (
	"context"
	"fmt"
	"log"
	"time"

	"relay-service/internal/models"
	"relay-service/internal/telemetry"
)

// SystemSender names the synthetic author of join/leave announcements.
const SystemSender = "system"

// Router is the entry point for inbound client operations. Each method is
// independently schedulable; shared state is reached only through the
// registry's own synchronization. Operations referencing a connection that
// already disconnected are dropped silently.
type Router struct {
	registry *Registry
	sender   Sender
	presence *Presence
	keys     *KeyExchange
	archive  Archive
	audit    *telemetry.AuditEmitter
}

// NewRouter wires the router's collaborators. archive and audit may be nil
// when the archive store or the audit exchange is disabled.
func NewRouter(registry *Registry, sender Sender, presence *Presence, keys *KeyExchange, archive Archive, audit *telemetry.AuditEmitter) *Router {
	return &Router{
		registry: registry,
		sender:   sender,
		presence: presence,
		keys:     keys,
		archive:  archive,
		audit:    audit,
	}
}

// JoinRoom registers the connection under the room, announces the join,
// refreshes presence and answers the caller with its connection id.
func (r *Router) JoinRoom(ctx context.Context, connectionID, userID string, req models.JoinRoomRequest) {
	r.registry.Register(Connection{
		ConnectionID: connectionID,
		UserID:       userID,
		DisplayName:  req.DisplayName,
		RoomID:       req.RoomID,
	})

	r.sender.Broadcast(req.RoomID, models.ServerEvent{
		Event: models.EventReceiveMessage,
		Payload: models.ReceiveMessagePayload{
			Sender:      SystemSender,
			Message:     fmt.Sprintf("%s has joined the room!", req.DisplayName),
			MessageTime: time.Now(),
			RoomID:      req.RoomID,
		},
	})

	if err := r.presence.Refresh(ctx, req.RoomID); err != nil {
		log.Printf("presence refresh failed for room %s: %v", req.RoomID, err)
		r.sendError(connectionID, models.ActionJoinRoom, "presence lookup failed")
	}

	r.sender.SendToConnection(connectionID, models.ServerEvent{
		Event:   models.EventJoinedRoom,
		Payload: models.JoinedRoomPayload{ConnectionID: connectionID, RoomID: req.RoomID},
	})
}

// SendMessage broadcasts an encrypted message to the sender's current room,
// stamped with the server time and an initial seen-by-sender marker.
func (r *Router) SendMessage(connectionID string, req models.MessageRequest) {
	conn, ok := r.registry.Lookup(connectionID)
	if !ok {
		return
	}

	r.sender.Broadcast(conn.RoomID, models.ServerEvent{
		Event: models.EventReceiveMessage,
		Payload: models.ReceiveMessagePayload{
			Sender:      conn.DisplayName,
			Message:     req.Message,
			MessageTime: time.Now(),
			UserID:      conn.UserID,
			MessageID:   req.MessageID,
			SeenList:    []string{conn.UserID},
			RoomID:      conn.RoomID,
			Iv:          req.Iv,
		},
	})
}

// EditMessage broadcasts the replacement ciphertext for a message.
func (r *Router) EditMessage(connectionID string, req models.EditMessageRequest) {
	conn, ok := r.registry.Lookup(connectionID)
	if !ok {
		return
	}

	r.sender.Broadcast(conn.RoomID, models.ServerEvent{
		Event:   models.EventModifyMessage,
		Payload: models.ModifyMessagePayload{MessageID: req.ID, Message: req.Message, Iv: req.Iv},
	})
}

// MarkSeen broadcasts a seen receipt to the sender's current room.
func (r *Router) MarkSeen(connectionID string, req models.MessageSeenRequest) {
	conn, ok := r.registry.Lookup(connectionID)
	if !ok {
		return
	}

	r.sender.Broadcast(conn.RoomID, models.ServerEvent{
		Event:   models.EventModifyMessageSeen,
		Payload: models.ModifyMessageSeenPayload{UserID: req.UserID, MessageID: req.MessageID},
	})
}

// DeleteMessage broadcasts a deletion to the sender's current room.
func (r *Router) DeleteMessage(connectionID string, req models.DeleteMessageRequest) {
	conn, ok := r.registry.Lookup(connectionID)
	if !ok {
		return
	}

	r.sender.Broadcast(conn.RoomID, models.ServerEvent{
		Event:   models.EventDeleteMessage,
		Payload: models.DeleteMessagePayload{MessageID: req.MessageID},
	})
}

// SaveMessage archives the encrypted message. A failed write is reported to
// the sender only; nothing is broadcast either way.
func (r *Router) SaveMessage(ctx context.Context, connectionID string, req models.MessageRequest) {
	conn, ok := r.registry.Lookup(connectionID)
	if !ok {
		return
	}
	if r.archive == nil {
		r.sendError(connectionID, models.ActionSaveMessage, "archive disabled")
		return
	}

	_, err := r.archive.SaveMessage(ctx, models.ArchivedMessage{
		MessageID:   req.MessageID,
		RoomID:      conn.RoomID,
		SenderID:    conn.UserID,
		Ciphertext:  req.Message,
		Iv:          req.Iv,
		AsAnonymous: req.AsAnonymous,
	})
	if err != nil {
		log.Printf("archive write failed for room %s: %v", conn.RoomID, err)
		r.sendError(connectionID, models.ActionSaveMessage, "failed to store message")
	}
}

// ConnectedUserCount answers the caller with the room's connection count.
func (r *Router) ConnectedUserCount(connectionID string, req models.ConnectedUserCountRequest) {
	r.sender.SendToConnection(connectionID, models.ServerEvent{
		Event: models.EventConnectedUserCount,
		Payload: models.ConnectedUserCountPayload{
			RoomID: req.RoomID,
			Count:  r.registry.CountInRoom(req.RoomID),
		},
	})
}

// RequestRoomKey relays a key request to one existing room member. A request
// with no possible responder is dropped and audited.
func (r *Router) RequestRoomKey(ctx context.Context, connectionID string, req models.RoomKeyRequest) {
	conn, ok := r.registry.Lookup(connectionID)
	if !ok {
		return
	}

	if !r.keys.Request(conn.UserID, req) {
		log.Printf("key request for room %s dropped: no other member connected", req.RoomID)
		r.audit.Emit(ctx, "INFO", fmt.Sprintf("key request without responder in room %s", req.RoomID), "", &conn.UserID)
	}
}

// SupplyRoomKey forwards the encrypted room key to the requesting connection.
func (r *Router) SupplyRoomKey(req models.SupplyRoomKeyRequest) {
	r.keys.Supply(req)
}

// DeleteRoom announces the teardown, then forcibly deregisters every
// connection in the room and purges its archived messages.
func (r *Router) DeleteRoom(ctx context.Context, roomID string) {
	r.sender.Broadcast(roomID, models.ServerEvent{
		Event:   models.EventRoomDeleted,
		Payload: models.RoomDeletedPayload{RoomID: roomID},
	})
	r.registry.RemoveRoom(roomID)

	if err := r.presence.Refresh(ctx, roomID); err != nil {
		log.Printf("presence refresh failed for room %s: %v", roomID, err)
	}
	if r.archive != nil {
		if err := r.archive.DeleteRoomMessages(ctx, roomID); err != nil {
			log.Printf("archive purge failed for room %s: %v", roomID, err)
		}
	}
}

// OnDisconnect deregisters the connection and, when it had joined a room,
// announces the departure. A second disconnect for the same id is a no-op.
func (r *Router) OnDisconnect(ctx context.Context, connectionID string) {
	conn, ok := r.registry.Deregister(connectionID)
	if !ok {
		return
	}

	r.sender.Broadcast(conn.RoomID, models.ServerEvent{
		Event: models.EventReceiveMessage,
		Payload: models.ReceiveMessagePayload{
			Sender:      SystemSender,
			Message:     fmt.Sprintf("%s has left the room!", conn.DisplayName),
			MessageTime: time.Now(),
			RoomID:      conn.RoomID,
		},
	})

	if err := r.presence.Refresh(ctx, conn.RoomID); err != nil {
		log.Printf("presence refresh failed for room %s: %v", conn.RoomID, err)
	}

	r.sender.Broadcast(conn.RoomID, models.ServerEvent{
		Event:   models.EventUserDisconnected,
		Payload: models.UserDisconnectedPayload{User: conn.DisplayName},
	})
}

func (r *Router) sendError(connectionID, action, message string) {
	r.sender.SendToConnection(connectionID, models.ServerEvent{
		Event:   models.EventError,
		Payload: models.ErrorPayload{Action: action, Message: message},
	})
}
