package bootstrap

import (
	"context"
	"log"
	"time"

	"unit-chat-be/internal/config"
	"unit-chat-be/internal/controller"
	"unit-chat-be/internal/pkg/logger"
	"unit-chat-be/internal/repository/implementation"
	"unit-chat-be/internal/repository/memory"
	"unit-chat-be/internal/service"
	"unit-chat-be/pkg/chatbot"
	"unit-chat-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const chatCompletedTopic = "CHAT_COMPLETED"

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	SessionController  controller.ISessionController
	SettingsController controller.ISettingsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for startup work in main.go
	ChatService service.IChatService
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Durable KV storage for sessions and settings
	blobStore := newBlobStore(cfg)

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Completion backend
	gateway := chatbot.NewClient(
		cfg.Keys.GoogleGemini,
		cfg.Ai.Model,
		time.Duration(cfg.Ai.RequestTimeout)*time.Second,
	)

	sessionRepo := implementation.NewSessionRepository(blobStore, sysLogger)
	settingsStore := implementation.NewSettingsStore(blobStore, sysLogger)
	runtimeRepo := memory.NewRuntimeRepository()

	publisherService := service.NewPublisherService(chatCompletedTopic, pubSub)

	transcriptLogger := logger.NewIsolatedLogger(cfg.App.TranscriptLogPath)
	consumerService := service.NewConsumerService(pubSub, chatCompletedTopic, transcriptLogger)

	chatService := service.NewChatService(
		sessionRepo,
		settingsStore,
		runtimeRepo,
		gateway,
		publisherService,
		sysLogger,
	)

	return &Container{
		ChatController:     controller.NewChatController(chatService),
		SessionController:  controller.NewSessionController(chatService),
		SettingsController: controller.NewSettingsController(settingsStore),
		ConsumerService:    consumerService,
		ChatService:        chatService,
	}
}

func newBlobStore(cfg *config.Config) store.BlobStore {
	if cfg.App.StorageBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		return store.NewRedisStore(rdb)
	}

	fileStore, err := store.NewFileStore(cfg.App.StorageFilePath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize file store: %v", err)
	}
	return fileStore
}
