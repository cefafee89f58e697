package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relay-service/internal/mocks"
	"relay-service/internal/models"
)

func TestPresenceRefreshBroadcastsSnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", DisplayName: "alice", RoomID: "r1"})
	reg.Register(Connection{ConnectionID: "c2", UserID: "u2", DisplayName: "bob", RoomID: "r1"})

	directory := new(mocks.DirectoryMock)
	directory.On("ResolveUsers", mock.Anything, []string{"alice", "bob"}).
		Return(map[string]string{"alice": "u1", "bob": "u2"}, nil).Once()

	sender := newFakeSender()
	presence := NewPresence(reg, directory, sender)

	require.NoError(t, presence.Refresh(context.Background(), "r1"))

	event, ok := sender.lastBroadcast("r1", models.EventConnectedUser)
	require.True(t, ok)
	payload := event.Payload.(models.ConnectedUserPayload)
	require.Equal(t, "r1", payload.RoomID)
	require.Equal(t, map[string]string{"alice": "u1", "bob": "u2"}, payload.Users)
	directory.AssertExpectations(t)
}

func TestPresenceRefreshDedupesDisplayNames(t *testing.T) {
	reg := NewRegistry()
	// the same user in two tabs resolves once
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", DisplayName: "alice", RoomID: "r1"})
	reg.Register(Connection{ConnectionID: "c2", UserID: "u1", DisplayName: "alice", RoomID: "r1"})

	directory := new(mocks.DirectoryMock)
	directory.On("ResolveUsers", mock.Anything, []string{"alice"}).
		Return(map[string]string{"alice": "u1"}, nil).Once()

	presence := NewPresence(reg, directory, newFakeSender())
	require.NoError(t, presence.Refresh(context.Background(), "r1"))
	directory.AssertExpectations(t)
}

func TestPresenceRefreshEmptyRoomIsNoop(t *testing.T) {
	directory := new(mocks.DirectoryMock)
	sender := newFakeSender()
	presence := NewPresence(NewRegistry(), directory, sender)

	require.NoError(t, presence.Refresh(context.Background(), "r1"))
	require.Empty(t, sender.broadcastsTo("r1"))
	directory.AssertNotCalled(t, "ResolveUsers", mock.Anything, mock.Anything)
}

func TestPresenceRefreshDirectoryErrorSkipsBroadcast(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Connection{ConnectionID: "c1", UserID: "u1", DisplayName: "alice", RoomID: "r1"})

	directory := new(mocks.DirectoryMock)
	directory.On("ResolveUsers", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

	sender := newFakeSender()
	presence := NewPresence(reg, directory, sender)

	require.Error(t, presence.Refresh(context.Background(), "r1"))
	require.Empty(t, sender.broadcastsTo("r1"))
}
