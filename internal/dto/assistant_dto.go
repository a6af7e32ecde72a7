package dto

import "commerce-assistant-be/pkg/intent"

// ChatRequest is the wire request of the remote assistant endpoint.
type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	VisitorID string `json:"visitorId" validate:"required"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatReply is the reply body inside a ChatResponse.
type ChatReply struct {
	Text         string         `json:"text"`
	QuickReplies []string       `json:"quickReplies,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// ChatSessionRef carries the session id assigned by the assistant side.
type ChatSessionRef struct {
	ID string `json:"id"`
}

// ChatResponse is the wire response of the remote assistant endpoint.
// The cache gateway synthesizes the same shape (with Offline set) when
// the network is unavailable, so the session manager never special-cases
// transport failure payloads.
type ChatResponse struct {
	Response       ChatReply          `json:"response"`
	Session        *ChatSessionRef    `json:"session,omitempty"`
	Intent         string             `json:"intent,omitempty"`
	Confidence     float64            `json:"confidence,omitempty"`
	Candidates     []intent.Candidate `json:"candidates,omitempty"`
	ResponseTimeMs int64              `json:"responseTime,omitempty"`
	Offline        bool               `json:"offline,omitempty"`
}

// OfflineError is the structured payload returned for a knowledge
// endpoint that cannot be served from network or cache.
type OfflineError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CacheStatus reports partition entry counts on the cache-admin surface.
type CacheStatus struct {
	StaticEntries    int `json:"static_entries"`
	KnowledgeEntries int `json:"knowledge_entries"`
}

// ClearCacheResponse reports the outcome of a CLEAR_CACHE command.
type ClearCacheResponse struct {
	Cleared bool `json:"cleared"`
}

// ClassifyRequest is the diagnostics endpoint request.
type ClassifyRequest struct {
	Message string `json:"message" validate:"required"`
}
