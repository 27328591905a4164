package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"study-copilot-be/internal/config"
	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/controller"
	"study-copilot-be/internal/entity"
	"study-copilot-be/internal/pkg/logger"
	"study-copilot-be/internal/repository/memory"
	"study-copilot-be/internal/service"
	"study-copilot-be/internal/websocket"
	"study-copilot-be/pkg/extraction"
	"study-copilot-be/pkg/llm/factory"
	pktNats "study-copilot-be/pkg/nats"
	"study-copilot-be/pkg/speech"
)

type Container struct {
	// Controllers
	SubjectController controller.ISubjectController
	ChatController    controller.IChatController
	VoiceController   controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM Provider based on Config
	timeout := time.Duration(cfg.Chat.TimeoutSeconds) * time.Second
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		timeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-Memory Storage
	seed := make([]*entity.Subject, 0, len(constant.SeedSubjects))
	for _, s := range constant.SeedSubjects {
		seed = append(seed, &entity.Subject{Id: s.Id, Name: s.Name})
	}
	subjectRepo := memory.NewSubjectRepository(seed)
	conversationRepo := memory.NewConversationRepository()

	// NATS (optional)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis (optional, cross-instance hub fan-out)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.VoiceLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Extraction
	pdfExtractor := extraction.NewPDFServiceExtractor(cfg.Ai.PDFServiceURL)
	if !pdfExtractor.Healthy(context.Background()) {
		log.Printf("[WARN] PDF extraction service unreachable at %s", cfg.Ai.PDFServiceURL)
	}
	extractionGateway := extraction.NewGateway(pdfExtractor, extraction.NewTextExtractor())

	// Voice bridge over the websocket speech gateway
	voiceBridge := speech.NewBridge(websocket.NewSpeechGateway(wsHub))

	// Services
	publisherService := service.NewPublisherService(pubSub, cfg.Chat.FileAddedTopicName)
	consumerService := service.NewConsumerService(pubSub, cfg.Chat.FileAddedTopicName, wsHub, wsLogger)

	subjectService := service.NewSubjectService(subjectRepo, extractionGateway, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(
		llmProvider,
		conversationRepo,
		subjectRepo.Active,
		wsHub,
		voiceBridge,
		natsPub,
		sysLogger,
		timeout,
	)
	voiceService := service.NewVoiceService(chatService, voiceBridge, wsHub, wsLogger)

	// Speech engine frames arrive over the same websocket the hub serves
	wsHub.SetInboundHandler(voiceService.HandleEngineMessage)

	return &Container{
		SubjectController: controller.NewSubjectController(subjectService),
		ChatController:    controller.NewChatController(chatService),
		VoiceController:   controller.NewVoiceController(voiceService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
