package bootstrap

import (
	"context"
	"fmt"
	"time"

	"askq-be/internal/config"
	"askq-be/internal/controller"
	"askq-be/internal/pkg/logger"
	"askq-be/internal/pkg/mailer"
	"askq-be/internal/pkg/serverutils"
	"askq-be/internal/repository/contract"
	"askq-be/internal/repository/implementation"
	"askq-be/internal/repository/redisstore"
	"askq-be/internal/repository/unitofwork"
	"askq-be/internal/service"
	"askq-be/pkg/events"
	"askq-be/pkg/llm"
	"askq-be/pkg/llm/factory"
	"askq-be/pkg/prompt"

	pktNats "askq-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	QuotaController        controller.IQuotaController
	ChatController         controller.IChatController
	ConversationController controller.IConversationController

	// Middleware
	SessionMiddleware fiber.Handler

	Logger logger.ILogger

	closers []func()
}

// Options overrides collaborators that are normally built from config.
// Tests use it to inject fakes.
type Options struct {
	LLMProvider  llm.LLMProvider
	EmailService mailer.IEmailService
	Publisher    events.Publisher
	Logger       logger.ILogger
	LLMLogger    logger.ILogger
	RNG          prompt.RNG
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(db, cfg, Options{})
}

func NewContainerWithOptions(db *gorm.DB, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	sysLogger := opts.Logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	}
	llmLogger := opts.LLMLogger
	if llmLogger == nil {
		llmLogger = logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	}
	c.Logger = sysLogger

	codeTTL := time.Duration(cfg.Auth.CodeTTLMinutes) * time.Minute
	emailService := opts.EmailService
	if emailService == nil {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			codeTTL,
		)
	}

	// 2. Event Bus
	publisher := opts.Publisher
	if publisher == nil {
		publisher = c.newPublisher(cfg, sysLogger)
	}

	// 3. Quota store
	countRepo, err := c.newAnonymousCountRepository(db, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// 4. LLM
	llmProvider := opts.LLMProvider
	if llmProvider == nil {
		llmProvider, err = factory.NewLLMProvider(factory.Config{
			Provider:      cfg.Ai.LLMProvider,
			Model:         cfg.Ai.LLMModel,
			APIKey:        cfg.Ai.LLMAPIKey,
			BaseURL:       cfg.Ai.LLMBaseURL,
			OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize LLM provider: %w", err)
		}
		sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"model":    cfg.Ai.LLMModel,
		})
	}

	rng := opts.RNG
	if rng == nil {
		rng = prompt.DefaultRNG()
	}

	// 5. Services
	authService := service.NewAuthService(uowFactory, emailService, publisher, sysLogger, codeTTL, cfg.Auth.BcryptCost)
	quotaService := service.NewQuotaService(countRepo, cfg.Quota.FreeLimit, publisher, sysLogger)
	conversationService := service.NewConversationService(uowFactory, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		quotaService,
		llmProvider,
		prompt.NewBuilder(rng),
		publisher,
		sysLogger,
		llmLogger,
		cfg.Ai.MaxTokens,
		cfg.Ai.Temperature,
	)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService, controller.SessionCookieConfig{
		Name:   cfg.Auth.CookieName,
		MaxAge: time.Duration(cfg.Auth.CookieMaxAgeDays) * 24 * time.Hour,
		Secure: cfg.App.IsProduction(),
	})
	c.QuotaController = controller.NewQuotaController(quotaService)
	c.ChatController = controller.NewChatController(chatService)
	c.ConversationController = controller.NewConversationController(conversationService)
	c.SessionMiddleware = serverutils.SessionMiddleware(authService, cfg.Auth.CookieName)

	return c, nil
}

// newPublisher connects to NATS when configured. Without it events are dropped.
func (c *Container) newPublisher(cfg *config.Config, log logger.ILogger) events.Publisher {
	if cfg.App.NatsURL == "" {
		return events.NopPublisher{}
	}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Warn("BOOTSTRAP", "NATS unavailable, events disabled", map[string]interface{}{"error": err.Error()})
		return events.NopPublisher{}
	}
	c.closers = append(c.closers, natsPub.Close)
	return natsPub
}

func (c *Container) newAnonymousCountRepository(db *gorm.DB, cfg *config.Config, log logger.ILogger) (contract.AnonymousCountRepository, error) {
	if cfg.Quota.Backend != "redis" {
		return implementation.NewAnonymousCountRepository(db), nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return redisstore.NewAnonymousCountRepository(rdb), nil
}

// Close releases broker connections opened by the container.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
