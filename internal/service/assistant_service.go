package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"commerce-assistant-be/internal/constant"
	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/internal/repository/memory"
	"commerce-assistant-be/pkg/events"
	"commerce-assistant-be/pkg/intent"
	"commerce-assistant-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// TopicAssistantEvents is the in-process watermill topic carrying
// assistant platform events.
const TopicAssistantEvents = "assistant_events"

var placeholderRe = regexp.MustCompile(`\s*\{[a-z_]+\}`)

// IAssistantService defines the remote assistant endpoint's behavior.
type IAssistantService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	Classify(text string) intent.Result
	Knowledge(doc string) (map[string]any, bool)
}

type assistantService struct {
	classifier  *intent.Classifier
	sessionRepo *memory.SessionRepository
	pubSub      *gochannel.GoChannel
	logger      logger.ILogger
}

// NewAssistantService wires the classifier, the session context store
// and the event bus.
func NewAssistantService(
	classifier *intent.Classifier,
	sessionRepo *memory.SessionRepository,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		classifier:  classifier,
		sessionRepo: sessionRepo,
		pubSub:      pubSub,
		logger:      log,
	}
}

// Chat runs one exchange: classify, compose the canned reply, track the
// session and echo intent and confidence back to the widget.
func (s *assistantService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()

	result := s.classifier.Classify(request.Message)

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	sess, found := s.sessionRepo.Get(sessionID)
	if !found {
		sess = &store.ServerSession{ID: sessionID, VisitorID: request.VisitorID}
	}
	sess.LastIntent = result.Intent
	sess.LastSeen = time.Now()
	sess.Exchanges++
	s.sessionRepo.Save(sess)

	reply := s.composeReply(result)
	elapsed := time.Since(start).Milliseconds()

	s.logger.Info("Assistant", "Chat processed", map[string]interface{}{
		"session_id": sessionID,
		"intent":     result.Intent,
		"confidence": result.Confidence,
	})
	s.publishEvent(events.NewChatProcessed(sessionID, result.Intent, result.Confidence, elapsed))

	return &dto.ChatResponse{
		Response:       reply,
		Session:        &dto.ChatSessionRef{ID: sessionID},
		Intent:         result.Intent,
		Confidence:     result.Confidence,
		ResponseTimeMs: elapsed,
	}, nil
}

// Classify exposes the raw classifier result for diagnostics tooling.
func (s *assistantService) Classify(text string) intent.Result {
	return s.classifier.Classify(text)
}

// Knowledge returns one knowledge document by its short name.
func (s *assistantService) Knowledge(doc string) (map[string]any, bool) {
	d, ok := constant.KnowledgeDocuments[doc]
	return d, ok
}

// composeReply maps a classification to the response catalog. Unmatched
// input routes to the help/escalation reply, never an error.
func (s *assistantService) composeReply(result intent.Result) dto.ChatReply {
	if result.Intent == intent.IntentUnknown {
		return dto.ChatReply{
			Text:         constant.UnknownIntentReply,
			QuickReplies: constant.UnknownIntentQuickReplies,
		}
	}

	canned, ok := constant.IntentReplies[result.Intent]
	if !ok {
		// Every shipped intent has a catalog entry; a miss here means a
		// table/catalog drift, so degrade like unknown input.
		s.logger.Warn("Assistant", "No catalog reply for intent", map[string]interface{}{"intent": result.Intent})
		return dto.ChatReply{
			Text:         constant.UnknownIntentReply,
			QuickReplies: constant.UnknownIntentQuickReplies,
		}
	}

	text := canned.Text
	for name, value := range result.Params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	text = placeholderRe.ReplaceAllString(text, "")

	var data map[string]any
	if len(result.Params) > 0 {
		data = make(map[string]any, len(result.Params))
		for name, value := range result.Params {
			data[name] = value
		}
	}

	return dto.ChatReply{Text: text, QuickReplies: canned.QuickReplies, Data: data}
}

func (s *assistantService) publishEvent(event events.BaseEvent) {
	if s.pubSub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Assistant", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}
	msg := message.NewMessage(uuid.New().String(), payload)
	if err := s.pubSub.Publish(TopicAssistantEvents, msg); err != nil {
		s.logger.Warn("Assistant", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}
