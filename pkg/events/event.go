package events

import "time"

// Event type codes published by the assistant.
const (
	TypeChatProcessed   = "ASSISTANT_CHAT_PROCESSED"
	TypeCacheCleared    = "ASSISTANT_CACHE_CLEARED"
	TypePrewarmFinished = "ASSISTANT_PREWARM_FINISHED"
)

// Event defines the contract for all assistant platform events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the service.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatProcessed describes one completed chat exchange.
func NewChatProcessed(sessionID, intentName string, confidence float64, responseTimeMs int64) BaseEvent {
	return BaseEvent{
		Type: TypeChatProcessed,
		Data: map[string]interface{}{
			"session_id":       sessionID,
			"intent":           intentName,
			"confidence":       confidence,
			"response_time_ms": responseTimeMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewCacheCleared describes a completed CLEAR_CACHE command.
func NewCacheCleared(success bool) BaseEvent {
	return BaseEvent{
		Type:       TypeCacheCleared,
		Data:       map[string]interface{}{"success": success},
		OccurredAt: time.Now(),
	}
}

// NewPrewarmFinished describes a completed knowledge prewarm pass.
func NewPrewarmFinished(cached, failed int) BaseEvent {
	return BaseEvent{
		Type:       TypePrewarmFinished,
		Data:       map[string]interface{}{"cached": cached, "failed": failed},
		OccurredAt: time.Now(),
	}
}
