package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relay-service/internal/models"
)

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Broadcast(roomID string, event models.ServerEvent) {
	m.Called(roomID, event)
}

func (m *SenderMock) SendToConnection(connectionID string, event models.ServerEvent) bool {
	args := m.Called(connectionID, event)
	return args.Bool(0)
}

type DirectoryMock struct {
	mock.Mock
}

func (m *DirectoryMock) ResolveUsers(ctx context.Context, names []string) (map[string]string, error) {
	args := m.Called(ctx, names)
	var users map[string]string
	if val := args.Get(0); val != nil {
		users = val.(map[string]string)
	}
	return users, args.Error(1)
}

type ArchiveRepositoryMock struct {
	mock.Mock
}

func (m *ArchiveRepositoryMock) SaveMessage(ctx context.Context, msg models.ArchivedMessage) (models.ArchivedMessage, error) {
	args := m.Called(ctx, msg)
	var saved models.ArchivedMessage
	if val := args.Get(0); val != nil {
		saved = val.(models.ArchivedMessage)
	}
	return saved, args.Error(1)
}

func (m *ArchiveRepositoryMock) DeleteRoomMessages(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
