package models

import "time"

// ArchivedMessage is an encrypted message stored through the SaveMessage
// operation. Ciphertext and Iv are stored exactly as received.
type ArchivedMessage struct {
	ID          int       `db:"id" json:"id"`
	MessageID   string    `db:"message_id" json:"message_id"`
	RoomID      string    `db:"room_id" json:"room_id"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	Ciphertext  string    `db:"ciphertext" json:"ciphertext"`
	Iv          string    `db:"iv" json:"iv"`
	AsAnonymous bool      `db:"as_anonymous" json:"as_anonymous"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
