// Package chat wires the message store to the push dispatcher: persist
// first, then notify. A send is successful once persisted; real-time
// delivery is best-effort on top.
package chat

import (
	"context"
	"fmt"

	"github.com/shashibhushan21/Chat-App32/internal/models"
	"github.com/shashibhushan21/Chat-App32/internal/ws"

	"github.com/rs/zerolog"
)

// MessageStore is the persistence dependency
type MessageStore interface {
	Create(ctx context.Context, senderID, receiverID, text string, images []string) (*models.Message, error)
	ListConversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID, requesterID string) (*models.Message, error)
	MarkManyRead(ctx context.Context, messageIDs []string, requesterID string) ([]models.Message, error)
}

// Notifier is the push dependency. Implementations never block and never
// fail: an offline recipient means the event is dropped.
type Notifier interface {
	Notify(userID string, event ws.Event, payload interface{})
}

// Service orchestrates messaging operations
type Service struct {
	store    MessageStore
	notifier Notifier
	log      zerolog.Logger
}

// NewService creates a chat service
func NewService(store MessageStore, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// Send persists a message and then pushes it to the receiver's live
// connections, if any. Persistence failures are errors; a missed push is not.
func (s *Service) Send(ctx context.Context, senderID, receiverID, text string, images []string) (*models.Message, error) {
	msg, err := s.store.Create(ctx, senderID, receiverID, text, images)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.notifier.Notify(receiverID, ws.EventNewMessage, msg)

	s.log.Debug().Str("message_id", msg.ID).Str("sender_id", senderID).
		Str("receiver_id", receiverID).Msg("message sent")

	return msg, nil
}

// Conversation returns the full message history between two users,
// oldest first.
func (s *Service) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return s.store.ListConversation(ctx, userA, userB)
}

// MarkRead flips a message to read on behalf of its receiver and pushes a
// read receipt to the original sender's connections.
func (s *Service) MarkRead(ctx context.Context, messageID, requesterID string) (*models.Message, error) {
	msg, err := s.store.MarkRead(ctx, messageID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	s.notifier.Notify(msg.SenderID, ws.EventMessageRead, models.ReadReceipt{
		MessageID:    msg.ID,
		ReaderUserID: requesterID,
	})

	return msg, nil
}

// MarkManyRead marks a batch of messages read and pushes one read receipt
// per message that actually transitioned.
func (s *Service) MarkManyRead(ctx context.Context, messageIDs []string, requesterID string) ([]models.Message, error) {
	updated, err := s.store.MarkManyRead(ctx, messageIDs, requesterID)
	if err != nil {
		return nil, fmt.Errorf("mark many read: %w", err)
	}

	for _, msg := range updated {
		s.notifier.Notify(msg.SenderID, ws.EventMessageRead, models.ReadReceipt{
			MessageID:    msg.ID,
			ReaderUserID: requesterID,
		})
	}

	return updated, nil
}
