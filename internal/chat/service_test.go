package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shashibhushan21/Chat-App32/internal/apperr"
	"github.com/shashibhushan21/Chat-App32/internal/models"
	"github.com/shashibhushan21/Chat-App32/internal/ws"

	"github.com/rs/zerolog"
)

// memStore is an in-memory MessageStore with the same semantics as the
// Postgres-backed one.
type memStore struct {
	users    map[string]bool
	messages []*models.Message
	seq      int
}

func newMemStore(userIDs ...string) *memStore {
	users := make(map[string]bool)
	for _, id := range userIDs {
		users[id] = true
	}
	return &memStore{users: users}
}

func (s *memStore) Create(_ context.Context, senderID, receiverID, text string, images []string) (*models.Message, error) {
	if text == "" && len(images) == 0 {
		return nil, apperr.Validation("message must have text or images")
	}
	if !s.users[senderID] {
		return nil, apperr.Validation("sender does not exist")
	}
	if !s.users[receiverID] {
		return nil, apperr.Validation("receiver does not exist")
	}
	if images == nil {
		images = []string{}
	}
	s.seq++
	msg := &models.Message{
		ID:         fmt.Sprintf("m%d", s.seq),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Images:     images,
		Delivered:  true,
		CreatedAt:  time.Now().Add(time.Duration(s.seq) * time.Millisecond),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *memStore) ListConversation(_ context.Context, a, b string) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memStore) MarkRead(_ context.Context, messageID, requesterID string) (*models.Message, error) {
	for _, m := range s.messages {
		if m.ID != messageID {
			continue
		}
		if m.ReceiverID != requesterID {
			return nil, apperr.Authorization("only the receiver can mark a message read")
		}
		if !m.Read {
			m.Read = true
			now := time.Now()
			m.ReadAt = &now
		}
		cp := *m
		return &cp, nil
	}
	return nil, apperr.NotFound("message not found")
}

func (s *memStore) MarkManyRead(_ context.Context, messageIDs []string, requesterID string) ([]models.Message, error) {
	updated := []models.Message{}
	for _, id := range messageIDs {
		for _, m := range s.messages {
			if m.ID == id && m.ReceiverID == requesterID && !m.Read {
				m.Read = true
				now := time.Now()
				m.ReadAt = &now
				updated = append(updated, *m)
			}
		}
	}
	return updated, nil
}

// recordedEvent is one captured push
type recordedEvent struct {
	UserID  string
	Event   ws.Event
	Payload interface{}
}

type recorder struct {
	events []recordedEvent
}

func (r *recorder) Notify(userID string, event ws.Event, payload interface{}) {
	r.events = append(r.events, recordedEvent{UserID: userID, Event: event, Payload: payload})
}

func newService(store MessageStore, rec *recorder) *Service {
	return NewService(store, rec, zerolog.Nop())
}

func TestSendPersistsAndNotifiesReceiver(t *testing.T) {
	store := newMemStore("a1", "b1")
	rec := &recorder{}
	svc := newService(store, rec)
	ctx := context.Background()

	msg, err := svc.Send(ctx, "a1", "b1", "hi", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !msg.Delivered || msg.Read {
		t.Fatalf("expected delivered=true read=false, got %+v", msg)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected one push, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.UserID != "b1" || ev.Event != ws.EventNewMessage {
		t.Fatalf("unexpected push: %+v", ev)
	}
	if pushed, ok := ev.Payload.(*models.Message); !ok || pushed.ID != msg.ID {
		t.Fatalf("push payload should be the persisted message, got %+v", ev.Payload)
	}
}

func TestSendAppearsExactlyOnceLastInConversation(t *testing.T) {
	store := newMemStore("a1", "b1")
	svc := newService(store, &recorder{})
	ctx := context.Background()

	if _, err := svc.Send(ctx, "a1", "b1", "first", nil); err != nil {
		t.Fatal(err)
	}
	msg, err := svc.Send(ctx, "b1", "a1", "second", nil)
	if err != nil {
		t.Fatal(err)
	}

	conv, err := svc.Conversation(ctx, "a1", "b1")
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, m := range conv {
		if m.ID == msg.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("new message should appear exactly once, got %d", count)
	}
	if conv[len(conv)-1].ID != msg.ID {
		t.Fatal("new message should be last in conversation order")
	}
}

func TestConversationIsSymmetric(t *testing.T) {
	store := newMemStore("a1", "b1", "c1")
	svc := newService(store, &recorder{})
	ctx := context.Background()

	svc.Send(ctx, "a1", "b1", "one", nil)
	svc.Send(ctx, "b1", "a1", "two", nil)
	svc.Send(ctx, "a1", "c1", "unrelated", nil)

	ab, _ := svc.Conversation(ctx, "a1", "b1")
	ba, _ := svc.Conversation(ctx, "b1", "a1")
	if len(ab) != 2 || len(ba) != 2 {
		t.Fatalf("expected 2 messages both ways, got %d and %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].ID != ba[i].ID {
			t.Fatal("conversation must be identical regardless of argument order")
		}
	}
}

func TestSendRejectsEmptyAndUnknownUsers(t *testing.T) {
	store := newMemStore("a1", "b1")
	svc := newService(store, &recorder{})
	ctx := context.Background()

	if _, err := svc.Send(ctx, "a1", "b1", "", nil); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty send should be a validation error, got %v", err)
	}
	if _, err := svc.Send(ctx, "a1", "nobody", "hi", nil); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("unknown receiver should be a validation error, got %v", err)
	}

	// Images alone are a valid message
	if _, err := svc.Send(ctx, "a1", "b1", "", []string{"https://cdn/img.png"}); err != nil {
		t.Fatalf("image-only send should succeed, got %v", err)
	}
}

func TestOfflineReceiverStillPersists(t *testing.T) {
	store := newMemStore("a1", "b1")
	rec := &recorder{}
	svc := newService(store, rec)
	ctx := context.Background()

	// The recorder stands in for a hub with nobody connected; Notify is
	// fire-and-forget either way, so Send must succeed regardless.
	msg, err := svc.Send(ctx, "a1", "b1", "hi", nil)
	if err != nil {
		t.Fatalf("send with offline receiver must succeed: %v", err)
	}

	conv, _ := svc.Conversation(ctx, "a1", "b1")
	if len(conv) != 1 || conv[0].ID != msg.ID {
		t.Fatal("message must be retrievable via conversation after send")
	}
}

func TestMarkReadByReceiverNotifiesSender(t *testing.T) {
	store := newMemStore("a1", "b1")
	rec := &recorder{}
	svc := newService(store, rec)
	ctx := context.Background()

	msg, _ := svc.Send(ctx, "a1", "b1", "hi", nil)
	rec.events = nil

	read, err := svc.MarkRead(ctx, msg.ID, "b1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !read.Read || read.ReadAt == nil {
		t.Fatalf("expected read=true with timestamp, got %+v", read)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected one read receipt, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.UserID != "a1" || ev.Event != ws.EventMessageRead {
		t.Fatalf("receipt should go to the sender: %+v", ev)
	}
	receipt, ok := ev.Payload.(models.ReadReceipt)
	if !ok || receipt.MessageID != msg.ID || receipt.ReaderUserID != "b1" {
		t.Fatalf("unexpected receipt payload: %+v", ev.Payload)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := newMemStore("a1", "b1")
	svc := newService(store, &recorder{})
	ctx := context.Background()

	msg, _ := svc.Send(ctx, "a1", "b1", "hi", nil)

	first, err := svc.MarkRead(ctx, msg.ID, "b1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.MarkRead(ctx, msg.ID, "b1")
	if err != nil {
		t.Fatalf("second mark read must not error: %v", err)
	}
	if !first.Read || !second.Read {
		t.Fatal("both calls should report read=true")
	}
	if !first.ReadAt.Equal(*second.ReadAt) {
		t.Fatal("read timestamp must not move on repeat calls")
	}
}

func TestMarkReadBySenderIsForbidden(t *testing.T) {
	store := newMemStore("a1", "b1")
	rec := &recorder{}
	svc := newService(store, rec)
	ctx := context.Background()

	msg, _ := svc.Send(ctx, "a1", "b1", "hi", nil)
	rec.events = nil

	_, err := svc.MarkRead(ctx, msg.ID, "a1")
	if !apperr.Is(err, apperr.KindAuthorization) {
		t.Fatalf("sender marking own message read should be authorization error, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatal("failed mark read must not push anything")
	}

	conv, _ := svc.Conversation(ctx, "a1", "b1")
	if conv[0].Read {
		t.Fatal("failed mark read must not change state")
	}
}

func TestMarkReadUnknownMessage(t *testing.T) {
	svc := newService(newMemStore("a1"), &recorder{})
	_, err := svc.MarkRead(context.Background(), "nope", "a1")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkManyReadNotifiesPerTransition(t *testing.T) {
	store := newMemStore("a1", "b1")
	rec := &recorder{}
	svc := newService(store, rec)
	ctx := context.Background()

	m1, _ := svc.Send(ctx, "a1", "b1", "one", nil)
	m2, _ := svc.Send(ctx, "a1", "b1", "two", nil)
	svc.MarkRead(ctx, m1.ID, "b1")
	rec.events = nil

	// m1 already read, so only m2 transitions
	updated, err := svc.MarkManyRead(ctx, []string{m1.ID, m2.ID, "ghost"}, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 1 || updated[0].ID != m2.ID {
		t.Fatalf("expected only the unread message to transition, got %+v", updated)
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected one receipt, got %d", len(rec.events))
	}
}
