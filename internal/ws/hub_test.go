package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"relay-service/internal/models"
	"relay-service/internal/relay"
)

func newTestSession(connID string) *Session {
	return NewSession(nil, SessionInfo{ConnID: connID})
}

func drain(t *testing.T, s *Session) models.ServerEvent {
	t.Helper()
	select {
	case payload := <-s.send:
		var event models.ServerEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	default:
		t.Fatal("no queued event")
		return models.ServerEvent{}
	}
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	reg := relay.NewRegistry()
	hub := NewHub(reg)

	s1 := newTestSession("c1")
	s2 := newTestSession("c2")
	s3 := newTestSession("c3")
	hub.Attach(s1)
	hub.Attach(s2)
	hub.Attach(s3)
	reg.Register(relay.Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})
	reg.Register(relay.Connection{ConnectionID: "c2", UserID: "u2", RoomID: "r1"})
	reg.Register(relay.Connection{ConnectionID: "c3", UserID: "u3", RoomID: "r2"})

	hub.Broadcast("r1", models.ServerEvent{
		Event:   models.EventDeleteMessage,
		Payload: models.DeleteMessagePayload{MessageID: "m1"},
	})

	require.Equal(t, models.EventDeleteMessage, drain(t, s1).Event)
	require.Equal(t, models.EventDeleteMessage, drain(t, s2).Event)
	require.Empty(t, s3.send)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	reg := relay.NewRegistry()
	hub := NewHub(reg)

	s1 := newTestSession("c1")
	hub.Attach(s1)
	reg.Register(relay.Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})

	hub.Broadcast("empty", models.ServerEvent{Event: models.EventRoomDeleted})
	require.Empty(t, s1.send)
}

func TestBroadcastSkipsDetachedSessions(t *testing.T) {
	reg := relay.NewRegistry()
	hub := NewHub(reg)

	s1 := newTestSession("c1")
	s2 := newTestSession("c2")
	hub.Attach(s1)
	hub.Attach(s2)
	reg.Register(relay.Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})
	reg.Register(relay.Connection{ConnectionID: "c2", UserID: "u2", RoomID: "r1"})

	detached, ok := hub.Detach("c1")
	require.True(t, ok)
	require.Same(t, s1, detached)

	hub.Broadcast("r1", models.ServerEvent{Event: models.EventRoomDeleted})
	require.Empty(t, s1.send)
	require.Len(t, s2.send, 1)
}

func TestStalledRecipientDoesNotBlockOthers(t *testing.T) {
	reg := relay.NewRegistry()
	hub := NewHub(reg)

	stalled := newTestSession("c1")
	healthy := newTestSession("c2")
	hub.Attach(stalled)
	hub.Attach(healthy)
	reg.Register(relay.Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})
	reg.Register(relay.Connection{ConnectionID: "c2", UserID: "u2", RoomID: "r1"})

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, stalled.Send([]byte("{}")))
	}

	hub.Broadcast("r1", models.ServerEvent{
		Event:   models.EventModifyMessageSeen,
		Payload: models.ModifyMessageSeenPayload{UserID: "u1", MessageID: "m1"},
	})

	// the stalled session was closed, the healthy one got the event
	select {
	case <-stalled.done:
	default:
		t.Fatal("stalled session left open")
	}
	require.Equal(t, models.EventModifyMessageSeen, drain(t, healthy).Event)
}

func TestSendToConnection(t *testing.T) {
	hub := NewHub(relay.NewRegistry())

	s1 := newTestSession("c1")
	hub.Attach(s1)

	require.True(t, hub.SendToConnection("c1", models.ServerEvent{
		Event:   models.EventJoinedRoom,
		Payload: models.JoinedRoomPayload{ConnectionID: "c1", RoomID: "r1"},
	}))
	event := drain(t, s1)
	require.Equal(t, models.EventJoinedRoom, event.Event)

	require.False(t, hub.SendToConnection("unknown", models.ServerEvent{Event: models.EventJoinedRoom}))
}

func TestSendAfterCloseIsRefused(t *testing.T) {
	s := newTestSession("c1")
	s.Close()
	require.Error(t, s.Send([]byte("{}")))
	s.Close() // second close is safe
}
