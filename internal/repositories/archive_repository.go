package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"relay-service/internal/models"
)

// ArchiveRepository stores encrypted messages saved through the relay. The
// payloads are opaque ciphertext; the repository never inspects them.
type ArchiveRepository interface {
	SaveMessage(ctx context.Context, msg models.ArchivedMessage) (models.ArchivedMessage, error)
	DeleteRoomMessages(ctx context.Context, roomID string) error
}

// ArchiveRepo is a sqlx implementation of ArchiveRepository.
type ArchiveRepo struct {
	db *sqlx.DB
}

// NewArchiveRepo constructs an ArchiveRepo.
func NewArchiveRepo(db *sqlx.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// SaveMessage stores the encrypted message as received.
func (r *ArchiveRepo) SaveMessage(ctx context.Context, msg models.ArchivedMessage) (models.ArchivedMessage, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO message_archive (message_id, room_id, sender_id, ciphertext, iv, as_anonymous)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, message_id, room_id, sender_id, ciphertext, iv, as_anonymous, created_at`,
		msg.MessageID, msg.RoomID, msg.SenderID, msg.Ciphertext, msg.Iv, msg.AsAnonymous).
		Scan(&msg.ID, &msg.MessageID, &msg.RoomID, &msg.SenderID, &msg.Ciphertext, &msg.Iv, &msg.AsAnonymous, &msg.CreatedAt)
	return msg, err
}

// DeleteRoomMessages purges every archived message for a torn-down room.
func (r *ArchiveRepo) DeleteRoomMessages(ctx context.Context, roomID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM message_archive WHERE room_id=$1`, roomID)
	return err
}
