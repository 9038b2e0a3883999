package bootstrap

import (
	"context"
	"fmt"
	"log"

	"kelly-ai-client/internal/config"
	"kelly-ai-client/internal/controller"
	"kelly-ai-client/internal/handler"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/pkg/metrics"
	"kelly-ai-client/internal/repository/contract"
	"kelly-ai-client/internal/repository/implementation"
	"kelly-ai-client/internal/repository/memory"
	"kelly-ai-client/internal/service"
	"kelly-ai-client/internal/websocket"
	"kelly-ai-client/pkg/authapi"
	"kelly-ai-client/pkg/database"
	"kelly-ai-client/pkg/kelly"
	"kelly-ai-client/pkg/message"
	pktNats "kelly-ai-client/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const (
	ConversationTopic = "conversation_events"
	metricsNamespace  = "kelly_client"
)

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	ChatController   controller.IChatController
	ReportController controller.IReportController

	// Services (used directly by the terminal client)
	AuthService         service.IAuthService
	ConversationService service.IConversationService
	ChatService         service.IChatService
	ReportService       service.IReportService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventHandler *handler.EventHandler
	WebSocketHub *websocket.Hub

	Metrics *metrics.Collector
	Logger  logger.ILogger

	closers []func() error
}

// NewContainer wires the client against the configured secure store. The
// logger is passed in so the terminal client can keep logs off the console.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Secure store
	store, err := c.openSecureStore(cfg.Store)
	if err != nil {
		c.Close()
		return nil, err
	}
	if cfg.Store.SecretKey != "" {
		store, err = implementation.NewEncryptedSecureStore(store, cfg.Store.SecretKey)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("encrypted store: %w", err)
		}
	}
	conversationRepo := implementation.NewConversationRepository(store)
	credentialRepo := implementation.NewCredentialRepository(store)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64, BlockPublishUntilSubscriberAck: true},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub.Close)
	publisherService := service.NewPublisherService(ConversationTopic, pubSub)

	// NATS is optional; reports fall back to the log without it.
	var reportPublisher service.IEventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			reportPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 3. Remote clients
	aiClient := kelly.NewClient(cfg.Remote.AIBaseURL, cfg.Remote.AITimeout)
	authClient := authapi.NewClient(cfg.Remote.AuthBaseURL, cfg.Remote.AuthTimeout)

	// 4. Services
	c.Metrics = metrics.NewCollector(metricsNamespace)
	factory := message.NewFactory()

	c.ConversationService = service.NewConversationService(conversationRepo, factory, publisherService, sysLogger, c.Metrics)
	c.ChatService = service.NewChatService(c.ConversationService, aiClient, factory, publisherService, sysLogger, c.Metrics)
	c.AuthService = service.NewAuthService(authClient, credentialRepo, sysLogger)
	c.ReportService = service.NewReportService(reportPublisher, credentialRepo, sysLogger)

	// 5. WebSocket Hub
	c.WebSocketHub = websocket.NewHub(sysLogger)
	go c.WebSocketHub.Run()
	c.closers = append(c.closers, func() error { c.WebSocketHub.Stop(); return nil })

	c.ConsumerService = service.NewConsumerService(pubSub, ConversationTopic, c.WebSocketHub, sysLogger)
	c.EventHandler = handler.NewEventHandler(c.WebSocketHub, sysLogger)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(c.AuthService)
	c.ChatController = controller.NewChatController(c.ConversationService, c.ChatService)
	c.ReportController = controller.NewReportController(c.ReportService)

	return c, nil
}

func (c *Container) openSecureStore(cfg config.StoreConfig) (contract.SecureStore, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewSecureStore(), nil

	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.closers = append(c.closers, rdb.Close)
		return implementation.NewRedisSecureStore(rdb), nil

	case "postgres":
		if cfg.Connection == "" {
			return nil, fmt.Errorf("DB_CONNECTION_STRING is required for the postgres store")
		}
		db, err := database.NewGormDBFromDSN(cfg.Connection)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, sqlDB.Close)
		}
		return implementation.NewGormSecureStore(db), nil

	case "bolt", "":
		bolt, err := implementation.NewBoltSecureStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		c.closers = append(c.closers, bolt.Close)
		return bolt, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
}

// Close tears down the conversation store and releases connections in
// reverse order of opening.
func (c *Container) Close() {
	if c.ConversationService != nil {
		c.ConversationService.Close()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Container", "Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	c.closers = nil
	c.Logger.Sync()
}
