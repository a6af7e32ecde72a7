package service

import (
	"context"
	"encoding/json"

	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventSink receives serialized events for live delivery (websocket hub).
type EventSink interface {
	Broadcast(data []byte)
}

// EventForwarder pushes events onto the platform bus (NATS).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// IConsumerService drains the in-process event topic and fans events out
// to the websocket hub and, when configured, the platform bus.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sink      EventSink
	forwarder EventForwarder // nil when NATS is not configured
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sink EventSink,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sink:      sink,
		forwarder: forwarder,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Telemetry is best-effort: everything acks, nothing retries.
	defer msg.Ack()

	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	if cs.sink != nil {
		cs.sink.Broadcast(msg.Payload)
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("Consumer", "Failed to forward event to platform bus", map[string]interface{}{
				"type": event.EventType(), "error": err.Error(),
			})
		}
	}
}
