package store

import "time"

// Message roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Send states for a message exchange.
const (
	SendStateIdle    = "IDLE"
	SendStateSending = "SENDING"
)

// Surface states, orthogonal to the send state.
const (
	SurfaceClosed    = "CLOSED"
	SurfaceOpen      = "OPEN"
	SurfaceMinimized = "MINIMIZED"
)

// Message is one entry in a conversation. Messages are immutable once
// appended.
type Message struct {
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	QuickReplies []string  `json:"quick_replies,omitempty"`
	Intent       string    `json:"intent,omitempty"`
	Confidence   float64   `json:"confidence,omitempty"`
	IsError      bool      `json:"is_error"`
}

// Session is one active conversation. It is created fresh each time the
// assistant surface mounts; only the visitor id outlives it.
type Session struct {
	ID        string    `json:"id"` // assigned by the remote side on first exchange
	VisitorID string    `json:"visitor_id"`
	Messages  []Message `json:"messages"`
	Surface   string    `json:"surface"`
	SendState string    `json:"send_state"`
	Offline   bool      `json:"offline"`
	Unread    int       `json:"unread"`
}

// ServerSession is the remote side's in-memory view of a conversation,
// kept for short-lived context (last resolved intent).
type ServerSession struct {
	ID         string    `json:"id"`
	VisitorID  string    `json:"visitor_id"`
	LastIntent string    `json:"last_intent"`
	LastSeen   time.Time `json:"last_seen"`
	Exchanges  int       `json:"exchanges"`
}
