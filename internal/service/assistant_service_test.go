package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"commerce-assistant-be/internal/constant"
	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/internal/repository/memory"
	"commerce-assistant-be/pkg/events"
	"commerce-assistant-be/pkg/intent"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

func newTestAssistantService(t *testing.T, pubSub *gochannel.GoChannel) (IAssistantService, *memory.SessionRepository) {
	t.Helper()
	repo := memory.NewSessionRepository(time.Minute)
	svc := NewAssistantService(intent.NewDefault(), repo, pubSub, logger.NewNopLogger())
	return svc, repo
}

func TestChatAssignsSessionAndTracksContext(t *testing.T) {
	svc, repo := newTestAssistantService(t, nil)

	resp, err := svc.Chat(t.Context(), &dto.ChatRequest{
		Message:   "Where's my order #12345",
		VisitorID: "visitor_1",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if resp.Session == nil || resp.Session.ID == "" {
		t.Fatal("first exchange must assign a session id")
	}
	if resp.Intent != "order_status" {
		t.Errorf("intent = %q, want order_status", resp.Intent)
	}
	if !strings.Contains(resp.Response.Text, "12345") {
		t.Errorf("reply %q must carry the extracted order number", resp.Response.Text)
	}

	sess, found := repo.Get(resp.Session.ID)
	if !found {
		t.Fatal("session not persisted")
	}
	if sess.LastIntent != "order_status" || sess.Exchanges != 1 {
		t.Errorf("session = %+v", sess)
	}

	// Second exchange on the same session id accumulates.
	resp2, err := svc.Chat(t.Context(), &dto.ChatRequest{
		Message:   "talk to someone",
		VisitorID: "visitor_1",
		SessionID: resp.Session.ID,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp2.Session.ID != resp.Session.ID {
		t.Errorf("session id changed: %q -> %q", resp.Session.ID, resp2.Session.ID)
	}
	sess, _ = repo.Get(resp.Session.ID)
	if sess.Exchanges != 2 {
		t.Errorf("exchanges = %d, want 2", sess.Exchanges)
	}
}

func TestChatUnknownInputGetsHelpReply(t *testing.T) {
	svc, _ := newTestAssistantService(t, nil)

	resp, err := svc.Chat(t.Context(), &dto.ChatRequest{
		Message:   "xyzzy plugh",
		VisitorID: "visitor_1",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if resp.Intent != intent.IntentUnknown {
		t.Errorf("intent = %q, want unknown", resp.Intent)
	}
	if resp.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", resp.Confidence)
	}
	if resp.Response.Text != constant.UnknownIntentReply {
		t.Errorf("reply = %q", resp.Response.Text)
	}
	if len(resp.Response.QuickReplies) == 0 {
		t.Error("unknown reply must offer quick replies")
	}
}

func TestChatFillsNothingWhenCaptureMissing(t *testing.T) {
	svc, _ := newTestAssistantService(t, nil)

	// Matches order_status without an order number capture.
	resp, err := svc.Chat(t.Context(), &dto.ChatRequest{
		Message:   "where is my order",
		VisitorID: "visitor_1",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if strings.Contains(resp.Response.Text, "{") {
		t.Errorf("reply %q leaked a placeholder", resp.Response.Text)
	}
}

func TestChatPublishesProcessedEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc, _ := newTestAssistantService(t, pubSub)

	messages, err := pubSub.Subscribe(t.Context(), TopicAssistantEvents)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if _, err := svc.Chat(t.Context(), &dto.ChatRequest{Message: "request a quote", VisitorID: "visitor_1"}); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	select {
	case msg := <-messages:
		var event events.BaseEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.Type != events.TypeChatProcessed {
			t.Errorf("event type = %q, want %q", event.Type, events.TypeChatProcessed)
		}
		if event.Data["intent"] != "quote_request" {
			t.Errorf("event intent = %v", event.Data["intent"])
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

func TestKnowledgeDocuments(t *testing.T) {
	svc, _ := newTestAssistantService(t, nil)

	for _, doc := range []string{"faq", "shipping", "hours", "contact"} {
		if _, ok := svc.Knowledge(doc); !ok {
			t.Errorf("knowledge document %q missing", doc)
		}
	}
	if _, ok := svc.Knowledge("pricing"); ok {
		t.Error("unexpected knowledge document 'pricing'")
	}
}
