package relay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"relay-service/internal/models"
)

func TestKeyRequestDeliveredToSingleOtherMember(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", DisplayName: "alice", RoomID: "r1"})
	reg.Register(Connection{ConnectionID: "c2", UserID: "u2", DisplayName: "bob", RoomID: "r1"})

	sender := newFakeSender()
	keys := NewKeyExchange(reg, sender)

	handled := keys.Request("u2", models.RoomKeyRequest{RoomID: "r1", ConnectionID: "c2", PublicKey: "pub-b"})
	require.True(t, handled)

	// point-to-point to the sole other member, never a room broadcast
	require.Empty(t, sender.broadcastsTo("r1"))
	events := sender.directTo("c1")
	require.Len(t, events, 1)
	require.Equal(t, models.EventKeyRequest, events[0].Event)

	payload := events[0].Payload.(models.KeyRequestPayload)
	require.Equal(t, "c2", payload.RequesterConnectionID)
	require.Equal(t, "u2", payload.RequesterUserID)
	require.Equal(t, "pub-b", payload.RequesterPublicKey)
	require.Empty(t, sender.directTo("c2"))
}

func TestKeyRequestPicksFirstInJoinOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})
	reg.Register(Connection{ConnectionID: "c2", UserID: "u2", RoomID: "r1"})
	reg.Register(Connection{ConnectionID: "c3", UserID: "u3", RoomID: "r1"})

	sender := newFakeSender()
	keys := NewKeyExchange(reg, sender)

	require.True(t, keys.Request("u3", models.RoomKeyRequest{RoomID: "r1", ConnectionID: "c3", PublicKey: "pub"}))
	require.Len(t, sender.directTo("c1"), 1)
	require.Empty(t, sender.directTo("c2"))
}

func TestKeyRequestSkipsRequesterWhenFirst(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})
	reg.Register(Connection{ConnectionID: "c2", UserID: "u2", RoomID: "r1"})

	sender := newFakeSender()
	keys := NewKeyExchange(reg, sender)

	require.True(t, keys.Request("u1", models.RoomKeyRequest{RoomID: "r1", ConnectionID: "c1", PublicKey: "pub"}))
	require.Empty(t, sender.directTo("c1"))
	require.Len(t, sender.directTo("c2"), 1)
}

func TestKeyRequestWithoutOtherMemberIsDropped(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", RoomID: "r1"})

	sender := newFakeSender()
	keys := NewKeyExchange(reg, sender)

	require.False(t, keys.Request("u1", models.RoomKeyRequest{RoomID: "r1", ConnectionID: "c1", PublicKey: "pub"}))
	require.Empty(t, sender.direct)
	require.Empty(t, sender.broadcast)
}

func TestSupplyForwardsEncryptedKeyVerbatim(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c2", UserID: "u2", RoomID: "r1"})

	sender := newFakeSender()
	keys := NewKeyExchange(reg, sender)

	require.True(t, keys.Supply(models.SupplyRoomKeyRequest{EncryptedRoomKey: "enc-blob", ConnectionID: "c2", RoomID: "r1"}))

	events := sender.directTo("c2")
	require.Len(t, events, 1)
	require.Equal(t, models.EventGetSymmetricKey, events[0].Event)
	payload := events[0].Payload.(models.GetSymmetricKeyPayload)
	require.Equal(t, "enc-blob", payload.EncryptedRoomKey)
	require.Equal(t, "r1", payload.RoomID)
}

func TestSupplyToDisconnectedRequesterIsDropped(t *testing.T) {
	sender := newFakeSender()
	keys := NewKeyExchange(NewRegistry(), sender)

	require.False(t, keys.Supply(models.SupplyRoomKeyRequest{EncryptedRoomKey: "enc-blob", ConnectionID: "gone", RoomID: "r1"}))
	require.Empty(t, sender.direct)
	require.Empty(t, sender.broadcast)
}
