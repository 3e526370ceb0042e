package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	commands_handlers "github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/handlers"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	queries_handlers "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/handlers"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/services"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/config"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/mockbackend"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/kv"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/memory"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/seed"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/resilience"
	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/http/rest"
	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/ws"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/observability"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"
)

const metricsNamespace = "ris"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// ProvideCollector creates the prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideKeyValueStore opens the session storage selected by SESSION_BACKEND
func ProvideKeyValueStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.KeyValueStore, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendFile:
		store, err := kv.NewFileStore(cfg.SessionFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Session storage on disk", zap.String("path", cfg.SessionFile))
		return store, func() {}, nil
	case config.SessionBackendRedis:
		store, err := kv.NewRedisStore(ctx, kv.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: "ris:",
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Session storage in redis", zap.String("addr", cfg.RedisAddr))
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}, nil
	}
	return kv.NewMemoryStore(), func() {}, nil
}

// ProvideSeedData loads the demo data set, or an empty one when seeding is off
func ProvideSeedData(cfg *config.Config) (ports.SeedData, error) {
	if !cfg.SeedData {
		return ports.SeedData{}, nil
	}
	if cfg.SeedFile != "" {
		return seed.Load(cfg.SeedFile)
	}
	return seed.Default()
}

// ProvideEntityStore creates the entity store filled with data
func ProvideEntityStore(data ports.SeedData) *memory.EntityStore {
	store := memory.NewEntityStore()
	store.Reset(data)
	return store
}

// ProvideConversationLog creates the conversation store
func ProvideConversationLog(cfg *config.Config) *memory.ConversationLog {
	return memory.NewConversationLog(cfg.ConversationCap)
}

// ProvideRandom creates the shared randomness source
func ProvideRandom(cfg *config.Config) random.Source {
	return random.New(cfg.RandomSeed)
}

// ProvideMockBackend creates the mock backend
func ProvideMockBackend(cfg *config.Config, rng random.Source, logger *zap.Logger) *mockbackend.Backend {
	delays := mockbackend.DefaultDelays()
	if !cfg.MockLatency {
		delays = mockbackend.NoDelays()
	}
	return mockbackend.New(delays, rng, logger)
}

// ProvideBackend wraps the mock backend in a circuit breaker
func ProvideBackend(mock *mockbackend.Backend, collector *observability.Collector, logger *zap.Logger) *resilience.BreakerBackend {
	return resilience.NewBreakerBackend(mock, resilience.DefaultBreakerConfig("backend"), collector, logger)
}

// ProvideEmotionService creates the emotion service with capped logs
func ProvideEmotionService(cfg *config.Config, logger *zap.Logger) *services.EmotionService {
	return services.NewEmotionService(
		memory.NewBoundedLog[entities.EmotionReading](cfg.EmotionHistoryCap),
		memory.NewBoundedLog[entities.PADPoint](cfg.PADTrendCap),
		logger,
	)
}

// ProvideSessionService restores the persisted session
func ProvideSessionService(ctx context.Context, store ports.KeyValueStore, cfg *config.Config, logger *zap.Logger) *services.SessionService {
	return services.NewSessionService(ctx, store, cfg.SessionKey, logger)
}

// ProvideConversationService creates the conversation service
func ProvideConversationService(
	log ports.ConversationLog,
	store ports.EntityStore,
	backend ports.Backend,
	emotions *services.EmotionService,
	rng random.Source,
	logger *zap.Logger,
) *services.ConversationService {
	return services.NewConversationService(log, store, backend, emotions, rng, logger)
}

// ProvideJWTManager creates the token issuer and validator
func ProvideJWTManager(cfg *config.Config) (*auth.JWTManager, error) {
	return auth.NewJWTManager(auth.JWTConfig{
		SecretKey:  cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		ExpiryTime: cfg.TokenTTL,
	})
}

// ProvideCommandBus creates and configures the command bus
func ProvideCommandBus(
	store ports.EntityStore,
	backend ports.Backend,
	session *services.SessionService,
	conversation *services.ConversationService,
	emotions *services.EmotionService,
	tokens *auth.JWTManager,
	collector *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	commandBus.Use(bus.LoggingMiddleware(logger), bus.MetricsMiddleware(collector))

	set := commands_handlers.Set{
		Characters:    commands_handlers.NewCharacterHandler(store, collector, logger),
		Relationships: commands_handlers.NewRelationshipHandler(store, collector, logger),
		Memories:      commands_handlers.NewMemoryHandler(store, collector, logger),
		Reset:         commands_handlers.NewResetStoreHandler(store, logger),
		Session:       commands_handlers.NewSessionHandler(backend, session, tokens, logger),
		Chat:          commands_handlers.NewChatHandler(conversation, logger),
		Emotion:       commands_handlers.NewEmotionHandler(backend, store, emotions, logger),
	}
	if err := set.Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates and configures the query bus
func ProvideQueryBus(
	store ports.EntityStore,
	log ports.ConversationLog,
	backend ports.Backend,
	session *services.SessionService,
	conversation *services.ConversationService,
	emotions *services.EmotionService,
	collector *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	queryBus.Use(querybus.NewMetricsMiddleware(collector).Wrap)

	set := queries_handlers.Set{
		Entities:     queries_handlers.NewEntityQueryHandler(store, logger),
		Conversation: queries_handlers.NewConversationQueryHandler(conversation, log, emotions, logger),
		Reports:      queries_handlers.NewReportQueryHandler(backend, logger),
		Admin:        queries_handlers.NewAdminQueryHandler(store, session, log, emotions),
	}
	if err := set.Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error renderer; details are exposed
// outside production
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, !cfg.IsProduction())
}

// ProvideHub creates the websocket hub following the conversation log
func ProvideHub(log *memory.ConversationLog, collector *observability.Collector, logger *zap.Logger) (*ws.Hub, func()) {
	hub := ws.NewHub(collector, logger)
	stop := hub.Follow(log)
	return hub, stop
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	tokens *auth.JWTManager,
	session *services.SessionService,
	errs *apperrors.ErrorHandler,
	collector *observability.Collector,
	hub *ws.Hub,
	backend *resilience.BreakerBackend,
	data ports.SeedData,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(
		commandBus,
		queryBus,
		tokens,
		session,
		errs,
		collector,
		hub,
		backend.Ready,
		data,
		rest.Options{
			EnableCORS:     cfg.EnableCORS,
			AllowedOrigins: cfg.CORSOrigins,
			EnableMetrics:  cfg.EnableMetrics,
			LoginPerMinute: cfg.LoginRateLimit,
			TrustProxy:     cfg.TrustProxy,
		},
		logger,
	)
}
