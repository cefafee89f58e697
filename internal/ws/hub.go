package ws

import (
	"encoding/json"
	"log"
	"sync"

	"relay-service/internal/models"
	"relay-service/internal/observability"
	"relay-service/internal/relay"
)

// Hub maps connection ids to live sessions and fans events out over them.
// Room membership comes from the registry at call time, so delivery is
// always consistent with the current membership view.
type Hub struct {
	registry *relay.Registry
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates a hub over the given registry.
func NewHub(registry *relay.Registry) *Hub {
	return &Hub{
		registry: registry,
		sessions: make(map[string]*Session),
	}
}

// Attach registers a session under its connection id.
func (h *Hub) Attach(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[session.Info().ConnID] = session
}

// Detach removes and returns the session, if any.
func (h *Hub) Detach(connectionID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[connectionID]
	if ok {
		delete(h.sessions, connectionID)
	}
	return session, ok
}

// Broadcast delivers the event to every connection currently in the room.
// Delivery is best-effort and per-recipient isolated: a failed or stalled
// recipient is closed and dropped without affecting the others. Broadcasting
// to an empty room is a no-op.
func (h *Hub) Broadcast(roomID string, event models.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	conns := h.registry.ConnectionsInRoom(roomID)
	h.mu.RLock()
	recipients := make([]*Session, 0, len(conns))
	for _, conn := range conns {
		if session, ok := h.sessions[conn.ConnectionID]; ok {
			recipients = append(recipients, session)
		}
	}
	h.mu.RUnlock()

	for _, session := range recipients {
		if err := session.Send(payload); err != nil {
			log.Printf("websocket send error for %s: %v", session.Info().ConnID, err)
			observability.IncBroadcastFailure(event.Event)
			session.Close()
		}
	}
}

// SendToConnection delivers the event to a single session. Returns false when
// the session is unknown or refused the event.
func (h *Hub) SendToConnection(connectionID string, event models.ServerEvent) bool {
	h.mu.RLock()
	session, ok := h.sessions[connectionID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("send marshal error: %v", err)
		return false
	}
	if err := session.Send(payload); err != nil {
		log.Printf("websocket send error for %s: %v", connectionID, err)
		observability.IncBroadcastFailure(event.Event)
		session.Close()
		return false
	}
	return true
}
