package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-interview-be/internal/config"
	"ai-interview-be/internal/controller"
	"ai-interview-be/internal/handler"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/mailer"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/memory"
	redisRepo "ai-interview-be/internal/repository/redis"
	"ai-interview-be/internal/service"
	"ai-interview-be/internal/websocket"
	"ai-interview-be/pkg/ingest"
	"ai-interview-be/pkg/interview/agent"
	"ai-interview-be/pkg/interview/engine"
	"ai-interview-be/pkg/interview/planner"
	"ai-interview-be/pkg/llm/factory"

	pktNats "ai-interview-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	InterviewController controller.IInterviewController
	HealthController    controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	LiveFeedHandler *handler.LiveFeedHandler
	WebSocketHub    *websocket.Hub

	closers []func() error
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)

	c := &Container{}
	for _, l := range []*logger.ZapLogger{sysLogger, llmLogger, feedLogger} {
		// stdout sync fails on most terminals
		c.closers = append(c.closers, func() error { _ = l.Sync(); return nil })
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub.Close)

	// 3. Infrastructure
	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, rdb.Close)
	}
	cancel()

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	var relay service.EventRelay
	if natsPub != nil {
		relay = natsPub
		c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
	}

	// Session storage
	var sessionRepo contract.InterviewSessionRepository
	if cfg.Interview.SessionStore == "redis" && rdb != nil {
		sessionRepo = redisRepo.NewSessionRepository(rdb, cfg.Interview.SessionTTL)
		log.Printf("[INFO] Using Session Store: REDIS (ttl %s)", cfg.Interview.SessionTTL)
	} else {
		if cfg.Interview.SessionStore == "redis" {
			log.Printf("[WARN] Redis unavailable, sessions will not survive a restart")
		}
		sessionRepo = memory.NewSessionRepository(cfg.Interview.SessionTTL)
		log.Printf("[INFO] Using Session Store: MEMORY (ttl %s)", cfg.Interview.SessionTTL)
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, feedLogger)

	// 4. AI collaborators
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:          cfg.Ai.LLMProvider,
		Model:             cfg.Ai.LLMModel,
		BaseURL:           cfg.Ai.BaseURL(),
		APIKey:            cfg.Ai.LLMAPIKey,
		Timeout:           cfg.Ai.Timeout,
		MaxRetries:        cfg.Ai.MaxRetries,
		RequestsPerSecond: cfg.Ai.RequestsPerSecond,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var questions engine.QuestionProvider = agent.NewQuestionGenerator(llmProvider, llmLogger)
	if cfg.Ai.FallbackQuestions {
		questions = agent.NewFallbackQuestions(questions, llmLogger)
		log.Printf("[INFO] Fallback question bank enabled")
	}

	catalog := planner.DefaultCatalog()
	if cfg.Interview.PhaseCatalogPath != "" {
		catalog, err = planner.LoadCatalog(cfg.Interview.PhaseCatalogPath)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load phase catalog: %v", err)
		}
		log.Printf("[INFO] Loaded phase catalog from %s", cfg.Interview.PhaseCatalogPath)
	}

	interviewEngine := engine.New(
		engine.Dependencies{
			Store:     sessionRepo,
			Planner:   planner.NewPlanner(catalog),
			Questions: questions,
			Scorer:    agent.NewAnswerEvaluator(llmProvider, llmLogger),
			Insight:   agent.NewResumeAnalyzer(llmProvider, llmLogger),
			Logger:    sysLogger,
		},
		engine.Config{
			DefaultDurationMinutes: cfg.Interview.DefaultDurationMinutes,
			MinDurationMinutes:     cfg.Interview.MinDurationMinutes,
			MaxDurationMinutes:     cfg.Interview.MaxDurationMinutes,
		},
	)

	// 5. Services
	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
			sysLogger,
		)
	}

	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	interviewService := service.NewInterviewService(
		interviewEngine,
		ingest.NewIngestor(),
		publisherService,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EventTopic,
		relay,
		wsHub,
		emailService,
		cfg.SMTP.ReportRecipient,
		sysLogger,
	)

	// 6. Controllers
	c.InterviewController = controller.NewInterviewController(interviewService)
	c.HealthController = controller.NewHealthController(sessionRepo, sysLogger, cfg.App.Version, cfg.App.LogsEndpoint)
	c.LiveFeedHandler = handler.NewLiveFeedHandler(interviewService, wsHub, feedLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService

	return c
}

// Close releases infrastructure in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[WARN] Shutdown: %v", err)
		}
	}
}
