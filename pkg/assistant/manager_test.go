package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce-assistant-be/internal/constant"
	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/pkg/store"
)

// fakeClient scripts the remote endpoint.
type fakeClient struct {
	resp  *dto.ChatResponse
	err   error
	calls int
	last  struct {
		message, visitorID, sessionID string
	}
}

func (f *fakeClient) Send(ctx context.Context, message, visitorID, sessionID string) (*dto.ChatResponse, error) {
	f.calls++
	f.last.message, f.last.visitorID, f.last.sessionID = message, visitorID, sessionID
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
	}
}

func okResponse(text, sessionID string) *dto.ChatResponse {
	return &dto.ChatResponse{
		Response: dto.ChatReply{Text: text, QuickReplies: []string{"Order history"}},
		Session:  &dto.ChatSessionRef{ID: sessionID},
		Intent:   "order_status",
	}
}

func TestOpenSynthesizesWelcomeOnce(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want string
	}{
		{"morning", 9, constant.WelcomeMorning},
		{"afternoon", 14, constant.WelcomeAfternoon},
		{"evening", 21, constant.WelcomeEvening},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(&fakeClient{}, "visitor_1", logger.NewNopLogger(), WithClock(fixedClock(tt.hour)))

			m.ToggleChat()
			sess := m.Session()
			if len(sess.Messages) != 1 {
				t.Fatalf("messages after open = %d, want 1", len(sess.Messages))
			}
			if sess.Messages[0].Content != tt.want {
				t.Errorf("welcome = %q, want %q", sess.Messages[0].Content, tt.want)
			}
			if sess.Messages[0].Role != store.RoleBot {
				t.Errorf("welcome role = %q, want bot", sess.Messages[0].Role)
			}

			// Closing and reopening must not repeat the greeting.
			m.ToggleChat()
			m.ToggleChat()
			if got := len(m.Session().Messages); got != 1 {
				t.Errorf("messages after reopen = %d, want 1", got)
			}
		})
	}
}

func TestWelcomeIsLocalOnly(t *testing.T) {
	client := &fakeClient{}
	m := NewManager(client, "visitor_1", logger.NewNopLogger(), WithClock(fixedClock(9)))

	m.ToggleChat()
	if client.calls != 0 {
		t.Errorf("welcome made %d network calls, want 0", client.calls)
	}
}

func TestSendMessageAppendsUserAndBotMessages(t *testing.T) {
	client := &fakeClient{resp: okResponse("Let me check.", "sess_1")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger(), WithClock(fixedClock(14)))

	msg := m.SendMessage(t.Context(), "  where's my order #12345  ")
	if msg == nil {
		t.Fatal("SendMessage returned nil for non-empty input")
	}

	sess := m.Session()
	if len(sess.Messages) != 2 {
		t.Fatalf("messages = %d, want user + bot", len(sess.Messages))
	}
	if sess.Messages[0].Role != store.RoleUser || sess.Messages[0].Content != "where's my order #12345" {
		t.Errorf("user message = %+v, want trimmed input", sess.Messages[0])
	}
	if sess.Messages[1].Content != "Let me check." || sess.Messages[1].Intent != "order_status" {
		t.Errorf("bot message = %+v", sess.Messages[1])
	}
	if sess.ID != "sess_1" {
		t.Errorf("session id = %q, want adopted sess_1", sess.ID)
	}
	if sess.SendState != store.SendStateIdle {
		t.Errorf("send state = %q, want idle after settle", sess.SendState)
	}
	if client.last.visitorID != "visitor_1" {
		t.Errorf("visitor id sent = %q", client.last.visitorID)
	}
}

func TestSendMessageEmptyInputIsNoOp(t *testing.T) {
	client := &fakeClient{resp: okResponse("x", "sess_1")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger())

	if msg := m.SendMessage(t.Context(), "   "); msg != nil {
		t.Errorf("whitespace input returned %+v, want nil", msg)
	}
	if client.calls != 0 {
		t.Errorf("whitespace input made %d network calls", client.calls)
	}
	if got := len(m.Session().Messages); got != 0 {
		t.Errorf("messages = %d, want 0", got)
	}
}

func TestSendFailureAppendsErrorMessage(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger(), WithClock(fixedClock(14)))

	msg := m.SendMessage(t.Context(), "hello")
	if msg == nil {
		t.Fatal("failed send must still settle with a message")
	}
	if !msg.IsError {
		t.Error("failure message must be flagged as error")
	}
	if msg.Content != constant.OfflineChatApology {
		t.Errorf("failure text = %q", msg.Content)
	}

	want := []string{constant.QuickReplyTryAgain, constant.QuickReplyContactUs}
	if len(msg.QuickReplies) != len(want) {
		t.Fatalf("quick replies = %v, want %v", msg.QuickReplies, want)
	}
	for i := range want {
		if msg.QuickReplies[i] != want[i] {
			t.Errorf("quick reply[%d] = %q, want %q", i, msg.QuickReplies[i], want[i])
		}
	}

	if !m.Session().Offline {
		t.Error("failed send must mark the session offline")
	}
}

func TestOfflineFlagFollowsResponses(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger())

	m.SendMessage(t.Context(), "first")
	if !m.Session().Offline {
		t.Fatal("offline flag not set after failure")
	}

	client.err = nil
	client.resp = okResponse("back", "sess_1")
	m.SendMessage(t.Context(), "second")
	if m.Session().Offline {
		t.Error("offline flag must clear after a successful exchange")
	}
}

func TestMinimizedRepliesIncrementUnread(t *testing.T) {
	client := &fakeClient{resp: okResponse("reply", "sess_1")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger())

	m.ToggleChat()
	m.Minimize()
	m.SendMessage(t.Context(), "while minimized")

	if got := m.Session().Unread; got != 1 {
		t.Errorf("unread = %d, want 1", got)
	}

	m.Maximize()
	if got := m.Session().Unread; got != 0 {
		t.Errorf("unread after maximize = %d, want 0", got)
	}
}

func TestClearChatKeepsVisitorDropsSession(t *testing.T) {
	client := &fakeClient{resp: okResponse("reply", "sess_1")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger(), WithClock(fixedClock(9)))

	m.ToggleChat()
	m.SendMessage(t.Context(), "hello")
	m.ClearChat()

	sess := m.Session()
	if len(sess.Messages) != 0 {
		t.Errorf("messages after clear = %d, want 0", len(sess.Messages))
	}
	if sess.ID != "" {
		t.Errorf("session id after clear = %q, want empty", sess.ID)
	}
	if sess.VisitorID != "visitor_1" {
		t.Errorf("visitor id after clear = %q, must survive", sess.VisitorID)
	}

	// Next send must omit the old session id so the backend assigns a new one.
	m.SendMessage(t.Context(), "fresh start")
	if client.last.sessionID != "" {
		t.Errorf("session id sent after clear = %q, want empty", client.last.sessionID)
	}

	// Reopening greets again.
	m.ClearChat()
	m.Close()
	m.ToggleChat()
	if got := len(m.Session().Messages); got != 1 {
		t.Errorf("messages after reopen = %d, want welcome only", got)
	}
}

func TestQuickReplySendsLabelAsMessage(t *testing.T) {
	client := &fakeClient{resp: okResponse("routing", "sess_1")}
	m := NewManager(client, "visitor_1", logger.NewNopLogger())

	m.HandleQuickReply(t.Context(), "Track my order")
	if client.last.message != "Track my order" {
		t.Errorf("quick reply sent %q, want the label verbatim", client.last.message)
	}
}
