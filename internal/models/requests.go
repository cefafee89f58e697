package models

import "encoding/json"

// Inbound action names accepted by the event router.
const (
	ActionJoinRoom              = "JoinRoom"
	ActionSendMessage           = "SendMessage"
	ActionEditMessage           = "EditMessage"
	ActionMarkSeen              = "MarkSeen"
	ActionDeleteMessage         = "DeleteMessage"
	ActionSaveMessage           = "SaveMessage"
	ActionGetConnectedUserCount = "GetConnectedUserCount"
	ActionRequestRoomKey        = "RequestRoomKey"
	ActionSupplyRoomKey         = "SupplyRoomKey"
	ActionDeleteRoom            = "DeleteRoom"
)

// ClientFrame is the inbound websocket envelope.
type ClientFrame struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// JoinRoomRequest joins the connection to a room. The display name may be a
// pseudonym when the user opted into anonymity.
type JoinRoomRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	RoomID      string `json:"room_id" binding:"required"`
}

// MessageRequest carries an encrypted message. MessageID is assigned by the
// durable store before the relay call and may be absent.
type MessageRequest struct {
	RoomID      string `json:"room_id"`
	Message     string `json:"message"`
	AsAnonymous bool   `json:"as_anonymous"`
	Iv          string `json:"iv"`
	MessageID   string `json:"message_id,omitempty"`
}

// EditMessageRequest replaces a message's ciphertext.
type EditMessageRequest struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Iv      string `json:"iv"`
}

// MessageSeenRequest marks a message as seen by a user.
type MessageSeenRequest struct {
	UserID    string `json:"user_id"`
	MessageID string `json:"message_id"`
}

// DeleteMessageRequest removes a message for everyone in the room.
type DeleteMessageRequest struct {
	MessageID string `json:"message_id"`
}

// ConnectedUserCountRequest asks for the number of connections in a room.
type ConnectedUserCountRequest struct {
	RoomID string `json:"room_id"`
}

// RoomKeyRequest asks an existing room member for the room's symmetric key.
// ConnectionID is the requester's own connection id, echoed back so the
// responder knows where to send the encrypted key.
type RoomKeyRequest struct {
	RoomID       string `json:"room_id"`
	ConnectionID string `json:"connection_id"`
	PublicKey    string `json:"public_key"`
}

// SupplyRoomKeyRequest forwards the room key, encrypted under the requester's
// public key, to the requesting connection.
type SupplyRoomKeyRequest struct {
	EncryptedRoomKey string `json:"encrypted_room_key"`
	ConnectionID     string `json:"connection_id"`
	RoomID           string `json:"room_id"`
}

// DeleteRoomRequest tears down a room's live connections.
type DeleteRoomRequest struct {
	RoomID string `json:"room_id"`
}
