package relay

import (
	"context"

	"relay-service/internal/models"
)

// Presence publishes full presence snapshots for a room. Snapshots are
// leveled: each one replaces the previous view, so interleaving with chat
// events in either order is acceptable.
type Presence struct {
	registry  *Registry
	directory Directory
	sender    Sender
}

// NewPresence builds a Presence aggregator.
func NewPresence(registry *Registry, directory Directory, sender Sender) *Presence {
	return &Presence{registry: registry, directory: directory, sender: sender}
}

// Refresh recomputes the room's distinct users and broadcasts a ConnectedUser
// snapshot. On directory failure nothing is broadcast and the error is
// returned so the caller can report it to the initiating connection only.
func (p *Presence) Refresh(ctx context.Context, roomID string) error {
	conns := p.registry.ConnectionsInRoom(roomID)
	if len(conns) == 0 {
		return nil
	}

	names := make([]string, 0, len(conns))
	seen := map[string]struct{}{}
	for _, conn := range conns {
		if _, ok := seen[conn.DisplayName]; ok {
			continue
		}
		seen[conn.DisplayName] = struct{}{}
		names = append(names, conn.DisplayName)
	}

	users, err := p.directory.ResolveUsers(ctx, names)
	if err != nil {
		return err
	}

	p.sender.Broadcast(roomID, models.ServerEvent{
		Event:   models.EventConnectedUser,
		Payload: models.ConnectedUserPayload{RoomID: roomID, Users: users},
	})
	return nil
}
