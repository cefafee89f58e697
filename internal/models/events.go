package models

import "time"

// Outbound event names delivered to relay clients.
const (
	EventReceiveMessage     = "ReceiveMessage"
	EventModifyMessage      = "ModifyMessage"
	EventModifyMessageSeen  = "ModifyMessageSeen"
	EventDeleteMessage      = "DeleteMessage"
	EventConnectedUser      = "ConnectedUser"
	EventConnectedUserCount = "ConnectedUserCount"
	EventKeyRequest         = "KeyRequest"
	EventGetSymmetricKey    = "GetSymmetricKey"
	EventRoomDeleted        = "RoomDeleted"
	EventUserDisconnected   = "UserDisconnected"
	EventJoinedRoom         = "JoinedRoom"
	EventError              = "Error"
)

// ServerEvent is the outbound websocket envelope.
type ServerEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// ReceiveMessagePayload carries a chat message to every room member. Message
// and Iv are opaque to the relay; the clients encrypted them.
type ReceiveMessagePayload struct {
	Sender      string    `json:"sender"`
	Message     string    `json:"message"`
	MessageTime time.Time `json:"message_time"`
	UserID      string    `json:"user_id,omitempty"`
	MessageID   string    `json:"message_id,omitempty"`
	SeenList    []string  `json:"seen_list,omitempty"`
	RoomID      string    `json:"room_id"`
	Iv          string    `json:"iv,omitempty"`
}

// ModifyMessagePayload announces an edit of an existing message.
type ModifyMessagePayload struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Iv        string `json:"iv"`
}

// ModifyMessageSeenPayload announces a seen receipt.
type ModifyMessageSeenPayload struct {
	UserID    string `json:"user_id"`
	MessageID string `json:"message_id"`
}

// DeleteMessagePayload announces a message deletion.
type DeleteMessagePayload struct {
	MessageID string `json:"message_id"`
}

// ConnectedUserPayload is a full presence snapshot: display name to user id
// for every resolvable user currently in the room.
type ConnectedUserPayload struct {
	RoomID string            `json:"room_id"`
	Users  map[string]string `json:"users"`
}

// ConnectedUserCountPayload answers a GetConnectedUserCount request.
type ConnectedUserCountPayload struct {
	RoomID string `json:"room_id"`
	Count  int    `json:"count"`
}

// KeyRequestPayload is delivered point-to-point to the member selected to
// supply the room key.
type KeyRequestPayload struct {
	RoomID                string `json:"room_id"`
	RequesterConnectionID string `json:"requester_connection_id"`
	RequesterUserID       string `json:"requester_user_id"`
	RequesterPublicKey    string `json:"requester_public_key"`
}

// GetSymmetricKeyPayload forwards the encrypted room key to the requester.
// EncryptedRoomKey is ciphertext under the requester's public key; the relay
// never sees the plaintext key.
type GetSymmetricKeyPayload struct {
	EncryptedRoomKey string `json:"encrypted_room_key"`
	RoomID           string `json:"room_id"`
}

// RoomDeletedPayload announces room teardown.
type RoomDeletedPayload struct {
	RoomID string `json:"room_id"`
}

// UserDisconnectedPayload names the user whose connection closed.
type UserDisconnectedPayload struct {
	User string `json:"user"`
}

// JoinedRoomPayload answers a JoinRoom request with the assigned connection id.
type JoinedRoomPayload struct {
	ConnectionID string `json:"connection_id"`
	RoomID       string `json:"room_id"`
}

// ErrorPayload reports a failed operation to the initiating connection only.
type ErrorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
