package reconcile

import (
	"testing"
	"time"

	"github.com/shashibhushan21/Chat-App32/internal/models"
)

func confirmed(id, sender, receiver, text string) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       text,
		Delivered:  true,
		CreatedAt:  time.Now(),
	}
}

func TestOptimisticSubmitThenConfirm(t *testing.T) {
	c := NewConversation("me", "peer")

	corr := c.Submit("hello", nil)
	entries := c.Entries()
	if len(entries) != 1 || entries[0].Status != StatusPending {
		t.Fatalf("expected one pending entry, got %+v", entries)
	}
	if c.PendingCount() != 1 {
		t.Fatal("pending count should be 1")
	}

	if err := c.Confirm(corr, confirmed("m1", "me", "peer", "hello")); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	entries = c.Entries()
	if len(entries) != 1 {
		t.Fatal("confirm must replace, not append")
	}
	if entries[0].Status != StatusConfirmed || entries[0].Message.ID != "m1" {
		t.Fatalf("unexpected entry after confirm: %+v", entries[0])
	}
	if c.PendingCount() != 0 {
		t.Fatal("pending count should drop to 0")
	}
}

func TestConfirmKeepsPosition(t *testing.T) {
	c := NewConversation("me", "peer")
	corr1 := c.Submit("first", nil)
	c.Submit("second", nil)

	if err := c.Confirm(corr1, confirmed("m1", "me", "peer", "first")); err != nil {
		t.Fatal(err)
	}
	entries := c.Entries()
	if entries[0].Message.ID != "m1" || entries[1].Status != StatusPending {
		t.Fatal("confirming the first send must not reorder the view")
	}
}

func TestFailRemovesPendingEntry(t *testing.T) {
	c := NewConversation("me", "peer")
	corr := c.Submit("doomed", nil)

	if err := c.Fail(corr); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if len(c.Entries()) != 0 {
		t.Fatal("failed send must leave no ghost entry")
	}
	if err := c.Fail(corr); err != ErrUnknownCorrelation {
		t.Fatalf("double fail should report unknown correlation, got %v", err)
	}
}

func TestConfirmUnknownCorrelation(t *testing.T) {
	c := NewConversation("me", "peer")
	if err := c.Confirm("bogus", confirmed("m1", "me", "peer", "x")); err != ErrUnknownCorrelation {
		t.Fatalf("expected unknown correlation, got %v", err)
	}
}

func TestApplyNewMessageForOpenConversation(t *testing.T) {
	c := NewConversation("me", "peer")

	if !c.ApplyNewMessage(confirmed("m1", "peer", "me", "hi")) {
		t.Fatal("message from the open peer should be appended")
	}
	if got := c.Entries(); len(got) != 1 || got[0].Message.ID != "m1" {
		t.Fatalf("unexpected view: %+v", got)
	}

	// Duplicate push of the same message must not double-append
	if c.ApplyNewMessage(confirmed("m1", "peer", "me", "hi")) {
		t.Fatal("duplicate push should be ignored")
	}
	if len(c.Entries()) != 1 {
		t.Fatal("duplicate push corrupted the view")
	}
}

func TestApplyNewMessageFromOtherPeerCountsUnread(t *testing.T) {
	c := NewConversation("me", "peer")

	if c.ApplyNewMessage(confirmed("m9", "stranger", "me", "yo")) {
		t.Fatal("message from another conversation must not enter the view")
	}
	if len(c.Entries()) != 0 {
		t.Fatal("view corrupted by foreign message")
	}
	if c.UnreadFrom("stranger") != 1 {
		t.Fatal("foreign message should bump that peer's unread count")
	}

	c.ClearUnread("stranger")
	if c.UnreadFrom("stranger") != 0 {
		t.Fatal("clear should reset the count")
	}
}

func TestApplyNewMessageNotAddressedToSelf(t *testing.T) {
	c := NewConversation("me", "peer")
	if c.ApplyNewMessage(confirmed("m1", "peer", "someone-else", "hi")) {
		t.Fatal("message not addressed to self must be ignored")
	}
}

func TestUnreadIncomingAndMarkReadLocal(t *testing.T) {
	c := NewConversation("me", "peer")
	c.Load([]models.Message{
		confirmed("m1", "peer", "me", "one"),
		confirmed("m2", "me", "peer", "mine"),
		confirmed("m3", "peer", "me", "two"),
	})

	ids := c.UnreadIncoming()
	if len(ids) != 2 || ids[0] != "m1" || ids[1] != "m3" {
		t.Fatalf("expected unread m1,m3 got %v", ids)
	}

	c.MarkReadLocal(ids...)
	if len(c.UnreadIncoming()) != 0 {
		t.Fatal("marked messages should no longer be unread")
	}
}

func TestApplyReadFlipsById(t *testing.T) {
	c := NewConversation("me", "peer")
	corr := c.Submit("hello", nil)
	c.Confirm(corr, confirmed("m1", "me", "peer", "hello"))

	if err := c.ApplyRead("m1"); err != nil {
		t.Fatalf("apply read: %v", err)
	}
	if !c.Entries()[0].Message.Read {
		t.Fatal("read receipt should flip the local message")
	}

	// Applying again stays read, never backward
	if err := c.ApplyRead("m1"); err != nil {
		t.Fatal(err)
	}
	if !c.Entries()[0].Message.Read {
		t.Fatal("read state moved backward")
	}

	if err := c.ApplyRead("ghost"); err != ErrUnknownMessage {
		t.Fatalf("expected unknown message, got %v", err)
	}
}

func TestLoadPreservesPendingTail(t *testing.T) {
	c := NewConversation("me", "peer")
	corr := c.Submit("in flight", nil)

	c.Load([]models.Message{confirmed("m1", "peer", "me", "old")})

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected history + pending, got %d entries", len(entries))
	}
	if entries[0].Message.ID != "m1" || entries[1].Status != StatusPending {
		t.Fatal("pending send must survive a history reload at the tail")
	}

	if err := c.Confirm(corr, confirmed("m2", "me", "peer", "in flight")); err != nil {
		t.Fatalf("confirm after reload: %v", err)
	}
}
