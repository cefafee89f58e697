package relay

import (
	"context"

	"relay-service/internal/models"
)

// Sender delivers events to live transport sessions. Broadcast is best-effort
// and per-recipient isolated; SendToConnection reports whether a session for
// the connection id existed and accepted the event.
type Sender interface {
	Broadcast(roomID string, event models.ServerEvent)
	SendToConnection(connectionID string, event models.ServerEvent) bool
}

// Directory resolves display names to user ids for presence snapshots.
// Implemented by the user-service gRPC client.
type Directory interface {
	ResolveUsers(ctx context.Context, names []string) (map[string]string, error)
}

// Archive persists encrypted messages on explicit SaveMessage calls and
// purges them on room teardown. Implemented by the sqlx repository.
type Archive interface {
	SaveMessage(ctx context.Context, msg models.ArchivedMessage) (models.ArchivedMessage, error)
	DeleteRoomMessages(ctx context.Context, roomID string) error
}
