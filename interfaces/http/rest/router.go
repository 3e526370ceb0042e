package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	querybus "github.com/C-1995-O1-HALE-POPP/ris-system/application/queries/bus"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/http/rest/handlers"
	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/http/rest/middleware"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/auth"
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/observability"
)

// Options toggles the optional parts of the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	EnableMetrics  bool
	LoginPerMinute int
	// TrustProxy honours X-Forwarded-For and X-Real-IP when set
	TrustProxy bool
}

// SessionGate is the server-side session. Logged-out tokens are refused and
// token-less dashboard requests fall back to its identity.
type SessionGate interface {
	middleware.RevocationList
	middleware.SessionSource
}

// ReadinessProbe reports an error while a dependency cannot serve
type ReadinessProbe func() error

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	tokens     middleware.TokenValidator
	session    SessionGate
	errs       *apperrors.ErrorHandler
	metrics    *observability.Collector
	stream     http.Handler
	ready      ReadinessProbe
	seed       ports.SeedData
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. session, metrics, stream and ready may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	tokens middleware.TokenValidator,
	session SessionGate,
	errs *apperrors.ErrorHandler,
	metrics *observability.Collector,
	stream http.Handler,
	ready ReadinessProbe,
	seed ports.SeedData,
	opts Options,
	logger *zap.Logger,
) *Router {
	if session != nil {
		tokens = middleware.WithRevocation(tokens, session)
	}
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		tokens:     tokens,
		session:    session,
		errs:       errs,
		metrics:    metrics,
		stream:     stream,
		ready:      ready,
		seed:       seed,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	if rt.opts.TrustProxy {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(rt.errs.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil && rt.opts.EnableMetrics {
		router.Use(rt.metrics.HTTPMiddleware)
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000", "http://localhost:5173"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errs.HandleStatus(w, r, http.StatusNotFound, "Resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errs.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil && rt.opts.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	// Dashboard navigation
	app := handlers.NewAppHandler(rt.errs, rt.logger)
	viewer := middleware.OptionalAuthenticate(rt.tokens, rt.sessionSource())
	router.With(viewer).Get(handlers.AppPrefix+"/*", app.Resolve)
	router.With(viewer).Get(handlers.AppPrefix, app.Resolve)

	router.Route("/api/v1", rt.apiV1)

	return router
}

// sessionSource avoids handing a typed nil to the middleware
func (rt *Router) sessionSource() middleware.SessionSource {
	if rt.session == nil {
		return nil
	}
	return rt.session
}

func (rt *Router) apiV1(r chi.Router) {
	authenticate := middleware.Authenticate(rt.tokens, rt.errs, rt.logger)

	authHandler := handlers.NewAuthHandler(rt.commandBus, rt.errs, rt.logger)
	entityHandler := handlers.NewEntityHandler(rt.commandBus, rt.queryBus, rt.errs, rt.logger)
	chatHandler := handlers.NewChatHandler(rt.commandBus, rt.queryBus, rt.errs, rt.logger)
	emotionHandler := handlers.NewEmotionHandler(rt.commandBus, rt.queryBus, rt.errs, rt.logger)
	adminHandler := handlers.NewAdminHandler(rt.commandBus, rt.queryBus, rt.seed, rt.errs, rt.logger)

	// Auth endpoints
	r.Route("/auth", func(r chi.Router) {
		perMinute := rt.opts.LoginPerMinute
		if perMinute <= 0 {
			perMinute = 20
		}
		limiter := auth.NewIPRateLimiter(perMinute)
		r.With(middleware.RateLimitByIP(limiter, rt.errs, rt.logger)).Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/logout", authHandler.Logout)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/me", authHandler.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		// Character endpoints
		r.Route("/characters", func(r chi.Router) {
			r.Get("/", entityHandler.ListCharacters)
			r.Post("/", entityHandler.CreateCharacter)
			r.Get("/{id}", entityHandler.GetCharacter)
			r.Put("/{id}", entityHandler.UpdateCharacter)
			r.Delete("/{id}", entityHandler.DeleteCharacter)
			r.Get("/{id}/relationships", entityHandler.CharacterRelationships)
			r.Get("/{id}/memories", entityHandler.CharacterMemories)
		})

		// Relationship endpoints
		r.Route("/relationships", func(r chi.Router) {
			r.Get("/", entityHandler.ListRelationships)
			r.Post("/", entityHandler.CreateRelationship)
			r.Get("/{id}", entityHandler.GetRelationship)
			r.Put("/{id}", entityHandler.UpdateRelationship)
			r.Delete("/{id}", entityHandler.DeleteRelationship)
		})

		// Memory endpoints
		r.Route("/memories", func(r chi.Router) {
			r.Get("/", entityHandler.ListMemories)
			r.Post("/", entityHandler.CreateMemory)
			r.Get("/{id}", entityHandler.GetMemory)
			r.Put("/{id}", entityHandler.UpdateMemory)
			r.Delete("/{id}", entityHandler.DeleteMemory)
		})

		// Chat endpoints
		r.Route("/chat", func(r chi.Router) {
			r.Get("/personas", chatHandler.ListPersonas)
			r.Put("/persona", chatHandler.SwitchPersona)
			r.Get("/messages", chatHandler.Messages)
			r.Post("/messages", chatHandler.Send)
			r.Delete("/messages", chatHandler.Clear)
			if rt.stream != nil {
				r.Handle("/ws", rt.stream)
			}
		})

		// Emotion endpoints
		r.Route("/emotion", func(r chi.Router) {
			r.Post("/analyze", emotionHandler.Analyze)
			r.Get("/current", emotionHandler.Current)
			r.Get("/history", emotionHandler.History)
			r.Delete("/history", emotionHandler.ClearHistory)
			r.Post("/classify", emotionHandler.Classify)
			r.Post("/pad", emotionHandler.AddPADPoint)
		})

		r.Get("/reports/{kind}", emotionHandler.Report)

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(valueobjects.RoleAdmin, rt.errs))
			r.Get("/overview", adminHandler.Overview)
			r.Post("/reset", adminHandler.Reset)
		})
	})
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports not ready while the backend breaker is open
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	status, body := http.StatusOK, map[string]string{"status": "ready"}
	if rt.ready != nil {
		if err := rt.ready(); err != nil {
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "not ready", "reason": err.Error()}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
