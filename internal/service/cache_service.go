package service

import (
	"context"
	"encoding/json"

	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/pkg/events"
	"commerce-assistant-be/pkg/gateway"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ICacheService bridges the HTTP cache-admin surface onto the gateway
// command protocol.
type ICacheService interface {
	Prewarm(ctx context.Context) error
	Clear(ctx context.Context) (*dto.ClearCacheResponse, error)
	Status(ctx context.Context) (*dto.CacheStatus, error)
}

type cacheService struct {
	controller *gateway.Controller
	pubSub     *gochannel.GoChannel
	logger     logger.ILogger
}

func NewCacheService(controller *gateway.Controller, pubSub *gochannel.GoChannel, log logger.ILogger) ICacheService {
	return &cacheService{
		controller: controller,
		pubSub:     pubSub,
		logger:     log,
	}
}

// Prewarm triggers PRE_CACHE_AI, fire-and-forget.
func (s *cacheService) Prewarm(ctx context.Context) error {
	return s.controller.PreCache(ctx)
}

// Clear runs CLEAR_CACHE and waits for its single reply.
func (s *cacheService) Clear(ctx context.Context) (*dto.ClearCacheResponse, error) {
	cleared, err := s.controller.ClearCache(ctx)
	s.publishEvent(events.NewCacheCleared(cleared && err == nil))
	if err != nil {
		return nil, err
	}
	return &dto.ClearCacheResponse{Cleared: cleared}, nil
}

// Status runs GET_CACHE_STATUS and waits for its single reply.
func (s *cacheService) Status(ctx context.Context) (*dto.CacheStatus, error) {
	res, err := s.controller.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CacheStatus{
		StaticEntries:    res.StaticEntries,
		KnowledgeEntries: res.KnowledgeEntries,
	}, nil
}

func (s *cacheService) publishEvent(event events.BaseEvent) {
	if s.pubSub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := message.NewMessage(uuid.New().String(), payload)
	if err := s.pubSub.Publish(TopicAssistantEvents, msg); err != nil {
		s.logger.Warn("Cache", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}
