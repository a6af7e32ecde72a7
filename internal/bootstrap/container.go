package bootstrap

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"commerce-assistant-be/internal/config"
	"commerce-assistant-be/internal/constant"
	"commerce-assistant-be/internal/controller"
	"commerce-assistant-be/internal/handler"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/internal/repository/memory"
	"commerce-assistant-be/internal/service"
	"commerce-assistant-be/internal/websocket"
	"commerce-assistant-be/pkg/assistant"
	"commerce-assistant-be/pkg/events"
	"commerce-assistant-be/pkg/gateway"
	"commerce-assistant-be/pkg/intent"

	pktNats "commerce-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AssistantController  controller.IAssistantController
	CacheAdminController controller.ICacheAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	CacheCommands   *gateway.Controller
	Gateway         *gateway.Gateway

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub

	// Held for shutdown
	NatsPublisher *pktNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS (optional)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// Redis (optional)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 4. Cache gateway
	var cacheStore gateway.Store
	if cfg.Cache.Backend == "redis" && rdb != nil {
		cacheStore = gateway.NewRedisStore(rdb)
		log.Printf("[INFO] Using cache backend: REDIS")
	} else {
		cacheStore = gateway.NewMemoryStore()
		log.Printf("[INFO] Using cache backend: MEMORY")
	}

	gatewayLogger := logger.NewIsolatedLogger(cfg.App.GatewayLogFilePath)
	gw, err := gateway.New(cacheStore, nil, gateway.Config{
		Origin:                  cfg.App.BaseURL,
		ChatPathPrefix:          assistant.ChatPath,
		KnowledgePaths:          constant.KnowledgePaths,
		StaticManifest:          constant.StaticManifest,
		ChatOfflineText:         constant.OfflineChatApology,
		ChatOfflineQuickReplies: []string{constant.QuickReplyTryAgain, constant.QuickReplyContactUs},
		OfflineErrorMessage:     constant.OfflineErrorMessage,
	}, gatewayLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize cache gateway: %v", err)
	}

	cacheCommands := gateway.NewController(gw, gatewayLogger)
	cacheCommands.OnPrewarm(func(cached, failed int) {
		publishEvent(pubSub, sysLogger, events.NewPrewarmFinished(cached, failed))
	})

	// 5. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	classifier := intent.NewDefault()
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Assistant.SessionTTLMinutes) * time.Minute)

	assistantService := service.NewAssistantService(classifier, sessionRepo, pubSub, sysLogger)
	cacheService := service.NewCacheService(cacheCommands, pubSub, sysLogger)

	var forwarder service.EventForwarder
	if natsPub != nil {
		forwarder = natsPub
	}
	consumerService := service.NewConsumerService(pubSub, service.TopicAssistantEvents, wsHub, forwarder, sysLogger)

	// 7. Controllers
	assistantController := controller.NewAssistantController(assistantService)
	cacheAdminController := controller.NewCacheAdminController(cacheService)
	eventsHandler := handler.NewEventsHandler(wsHub, wsLogger)

	return &Container{
		AssistantController:  assistantController,
		CacheAdminController: cacheAdminController,
		ConsumerService:      consumerService,
		CacheCommands:        cacheCommands,
		Gateway:              gw,
		EventsHandler:        eventsHandler,
		WebSocketHub:         wsHub,
		NatsPublisher:        natsPub,
	}
}

func publishEvent(pubSub *gochannel.GoChannel, log logger.ILogger, event events.BaseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn("Bootstrap", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := pubSub.Publish(service.TopicAssistantEvents, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		log.Warn("Bootstrap", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}
