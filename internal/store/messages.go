package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashibhushan21/Chat-App32/internal/apperr"
	"github.com/shashibhushan21/Chat-App32/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// opTimeout bounds every store operation so callers get a Transient error
// instead of a hang when the database is slow.
const opTimeout = 5 * time.Second

// MessageStore is the durable, queryable record of all messages.
type MessageStore struct {
	db *pgxpool.Pool
}

// NewMessageStore creates a message store on the given pool
func NewMessageStore(db *pgxpool.Pool) *MessageStore {
	return &MessageStore{db: db}
}

// Create persists a new message with delivered=true, read=false. At least one
// of text/images must be non-empty, and both users must exist.
func (s *MessageStore) Create(ctx context.Context, senderID, receiverID, text string, images []string) (*models.Message, error) {
	if text == "" && len(images) == 0 {
		return nil, apperr.Validation("message must have text or images")
	}
	if senderID == receiverID {
		return nil, apperr.Validation("cannot send a message to yourself")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var senderExists, receiverExists bool
	err := s.db.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM users WHERE id = $1),
			EXISTS(SELECT 1 FROM users WHERE id = $2)
	`, senderID, receiverID).Scan(&senderExists, &receiverExists)
	if err != nil {
		return nil, classify("check message parties", err)
	}
	if !senderExists {
		return nil, apperr.Validation("sender does not exist")
	}
	if !receiverExists {
		return nil, apperr.Validation("receiver does not exist")
	}

	if images == nil {
		images = []string{}
	}

	var msg models.Message
	err = s.db.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, text, images, delivered, read, created_at)
		VALUES ($1, $2, $3, $4, $5, true, false, $6)
		RETURNING id, sender_id, receiver_id, text, images, delivered, read, read_at, created_at
	`, uuid.New().String(), senderID, receiverID, text, images, time.Now()).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Images,
			&msg.Delivered, &msg.Read, &msg.ReadAt, &msg.CreatedAt)
	if err != nil {
		return nil, classify("insert message", err)
	}

	return &msg, nil
}

// ListConversation returns all messages between the unordered pair {a, b},
// ordered by creation time ascending.
func (s *MessageStore) ListConversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, sender_id, receiver_id, text, images, delivered, read, read_at, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, userA, userB)
	if err != nil {
		return nil, classify("list conversation", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Images,
			&msg.Delivered, &msg.Read, &msg.ReadAt, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list conversation", err)
	}

	return messages, nil
}

// MarkRead sets read=true on a message. Only the receiver may do this.
// Idempotent: marking an already-read message again is a no-op and read_at
// keeps its original value. The update is a single atomic statement, never
// read-modify-write.
func (s *MessageStore) MarkRead(ctx context.Context, messageID, requesterID string) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var msg models.Message
	err := s.db.QueryRow(ctx, `
		UPDATE messages
		SET read = true, read_at = COALESCE(read_at, $1)
		WHERE id = $2 AND receiver_id = $3
		RETURNING id, sender_id, receiver_id, text, images, delivered, read, read_at, created_at
	`, time.Now(), messageID, requesterID).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Images,
			&msg.Delivered, &msg.Read, &msg.ReadAt, &msg.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish "no such message" from "not the receiver"
		var exists bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM messages WHERE id = $1)`, messageID).Scan(&exists); err != nil {
			return nil, classify("check message existence", err)
		}
		if exists {
			return nil, apperr.Authorization("only the receiver can mark a message read")
		}
		return nil, apperr.NotFound("message not found")
	}
	if err != nil {
		return nil, classify("mark message read", err)
	}

	return &msg, nil
}

// MarkManyRead marks several messages read in one statement. Messages not
// addressed to the requester are skipped, not errors. Returns the messages
// that transitioned to read by this call.
func (s *MessageStore) MarkManyRead(ctx context.Context, messageIDs []string, requesterID string) ([]models.Message, error) {
	if len(messageIDs) == 0 {
		return []models.Message{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		UPDATE messages
		SET read = true, read_at = COALESCE(read_at, $1)
		WHERE receiver_id = $2 AND id = ANY($3) AND read = false
		RETURNING id, sender_id, receiver_id, text, images, delivered, read, read_at, created_at
	`, time.Now(), requesterID, messageIDs)
	if err != nil {
		return nil, classify("mark messages read", err)
	}
	defer rows.Close()

	updated := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Images,
			&msg.Delivered, &msg.Read, &msg.ReadAt, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		updated = append(updated, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("mark messages read", err)
	}

	return updated, nil
}

// classify wraps database errors, surfacing timeouts as Transient so callers
// know a retry is safe.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Transient(op+" timed out", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
