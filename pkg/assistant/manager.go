package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"commerce-assistant-be/internal/constant"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/pkg/store"
)

// Manager owns one conversation: the visible message sequence, the
// surface flags and the exchange with the remote endpoint. The session
// is created fresh per mount; only the visitor id survives it.
//
// Mutations are synchronized, but overlapping SendMessage calls are not
// serialized against each other: their responses may append out of
// request order. Callers needing strict ordering must queue sends.
type Manager struct {
	client   Client
	logger   logger.ILogger
	clock    func() time.Time
	mu       sync.Mutex
	session  store.Session
	welcomed bool
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source (greeting selection, timestamps).
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// NewManager creates a session manager for one visitor.
func NewManager(client Client, visitorID string, log logger.ILogger, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		logger: log,
		clock:  time.Now,
		session: store.Session{
			VisitorID: visitorID,
			Surface:   store.SurfaceClosed,
			SendState: store.SendStateIdle,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns a snapshot of the current conversation.
func (m *Manager) Session() store.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.session
	snapshot.Messages = append([]store.Message(nil), m.session.Messages...)
	return snapshot
}

// SendMessage appends the user message, performs one exchange and
// appends the bot (or error) message. Empty input is a no-op, not an
// error. The call always settles: the returned message is either the
// bot reply or a locally synthesized error message, never nil for
// non-empty input.
func (m *Manager) SendMessage(ctx context.Context, text string) *store.Message {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	m.mu.Lock()
	m.session.Messages = append(m.session.Messages, store.Message{
		Role:      store.RoleUser,
		Content:   trimmed,
		Timestamp: m.clock(),
	})
	m.session.SendState = store.SendStateSending
	visitorID, sessionID := m.session.VisitorID, m.session.ID
	m.mu.Unlock()

	resp, err := m.client.Send(ctx, trimmed, visitorID, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.SendState = store.SendStateIdle

	if err != nil {
		m.logger.Warn("Assistant", "Send failed, appending error message", map[string]interface{}{
			"error": err.Error(),
		})
		m.session.Offline = true
		msg := store.Message{
			Role:         store.RoleBot,
			Content:      constant.OfflineChatApology,
			Timestamp:    m.clock(),
			QuickReplies: []string{constant.QuickReplyTryAgain, constant.QuickReplyContactUs},
			IsError:      true,
		}
		m.session.Messages = append(m.session.Messages, msg)
		return &msg
	}

	if resp.Session != nil && resp.Session.ID != "" {
		m.session.ID = resp.Session.ID
	}
	m.session.Offline = resp.Offline

	msg := store.Message{
		Role:         store.RoleBot,
		Content:      resp.Response.Text,
		Timestamp:    m.clock(),
		QuickReplies: resp.Response.QuickReplies,
		Intent:       resp.Intent,
		Confidence:   resp.Confidence,
	}
	m.session.Messages = append(m.session.Messages, msg)

	if m.session.Surface == store.SurfaceMinimized {
		m.session.Unread++
	}
	return &msg
}

// HandleQuickReply sends the label as if the visitor typed it.
func (m *Manager) HandleQuickReply(ctx context.Context, label string) *store.Message {
	return m.SendMessage(ctx, label)
}

// ClearChat resets the conversation and session id. The visitor id is
// untouched.
func (m *Manager) ClearChat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Messages = nil
	m.session.ID = ""
	m.session.Unread = 0
	m.welcomed = false
}

// ToggleChat flips between closed and open.
func (m *Manager) ToggleChat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Surface == store.SurfaceOpen {
		m.session.Surface = store.SurfaceClosed
		return
	}
	m.session.Surface = store.SurfaceOpen
	m.maybeWelcomeLocked()
}

// Minimize keeps the conversation alive in the background.
func (m *Manager) Minimize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Surface = store.SurfaceMinimized
}

// Maximize restores the surface and zeroes the unread counter.
func (m *Manager) Maximize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Surface = store.SurfaceOpen
	m.session.Unread = 0
	m.maybeWelcomeLocked()
}

// Close hides the surface.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Surface = store.SurfaceClosed
}

// maybeWelcomeLocked synthesizes the greeting the first time the surface
// becomes visible with no prior messages. Local only, never a network
// call.
func (m *Manager) maybeWelcomeLocked() {
	if m.welcomed || len(m.session.Messages) > 0 {
		return
	}
	m.welcomed = true
	m.session.Messages = append(m.session.Messages, store.Message{
		Role:         store.RoleBot,
		Content:      greetingFor(m.clock()),
		Timestamp:    m.clock(),
		QuickReplies: constant.WelcomeQuickReplies,
	})
}

func greetingFor(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return constant.WelcomeMorning
	case hour < 18:
		return constant.WelcomeAfternoon
	default:
		return constant.WelcomeEvening
	}
}
