package bootstrap

import (
	"context"
	"log"

	"ai-specdraft-be/internal/config"
	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/internal/controller"
	"ai-specdraft-be/internal/pkg/logger"
	"ai-specdraft-be/internal/repository/contract"
	"ai-specdraft-be/internal/repository/implementation"
	"ai-specdraft-be/internal/repository/memory"
	redisrepo "ai-specdraft-be/internal/repository/redis"
	"ai-specdraft-be/internal/service"
	"ai-specdraft-be/pkg/draft/elaborate"
	"ai-specdraft-be/pkg/draft/engine"
	"ai-specdraft-be/pkg/draft/gate"
	"ai-specdraft-be/pkg/draft/merge"
	"ai-specdraft-be/pkg/draft/refine"
	"ai-specdraft-be/pkg/llm/factory"

	pktNats "ai-specdraft-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DraftController controller.IDraftController

	// Background Services (Exposed for main.go to run)
	ArchiverService service.IArchiverService

	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS mirror is optional; sessions work fine without it.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Checkpoint store selection
	var sessionRepo contract.SessionStateRepository
	switch cfg.Session.Store {
	case "redis":
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
		sessionRepo = redisrepo.NewSessionStateRepository(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	case "postgres":
		if db == nil {
			log.Fatalf("[FATAL] SESSION_STORE=postgres requires DB_CONNECTION_STRING")
		}
		sessionRepo = implementation.NewSessionStateRepository(db)
		log.Printf("[INFO] Using Session Store: POSTGRES")
	default:
		sessionRepo = memory.NewSessionStateRepository()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 3. Drafting Engine
	llmLogger := service.NewLLMLogger()
	draftEngine := engine.New(
		gate.NewChecker(llmProvider, llmLogger),
		merge.NewMerger(llmProvider, llmLogger),
		elaborate.NewDetailer(llmProvider, llmLogger),
		refine.NewRefiner(llmProvider, llmLogger),
		cfg.Session.MinWords,
		llmLogger,
	)

	// 4. Services
	publisherService := service.NewPublisherService(constant.EventTopicName, pubSub)
	archiverService := service.NewArchiverService(
		pubSub,
		constant.EventTopicName,
		sessionRepo,
		cfg.App.ArchiveDir,
	)

	draftService := service.NewDraftService(
		sessionRepo,
		draftEngine,
		publisherService,
		natsPub,
		llmLogger,
	)

	// 5. Controllers
	return &Container{
		DraftController: controller.NewDraftController(draftService),
		ArchiverService: archiverService,
		SysLogger:       sysLogger,
	}
}
