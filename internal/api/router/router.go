package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/coachflow/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/coachflow/internal/http/middleware"
	"github.com/wolfman30/coachflow/internal/leads"
	"github.com/wolfman30/coachflow/internal/webchat"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Assistant          *handlers.AssistantHandler
	Coach              *handlers.CoachHandler
	Webchat            *webchat.Handler
	Leads              *leads.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Optional limit on message endpoints (per conversation) and the public form (per IP).
	RateLimiter *httpmiddleware.RateLimiter

	// Dependencies reported by /health.
	HealthChecks map[string]HealthCheck
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(logger))

	limit := func(key httpmiddleware.KeyFunc) func(http.Handler) http.Handler {
		if cfg.RateLimiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return cfg.RateLimiter.Middleware(key)
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.HealthChecks))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Leads != nil {
			public.With(limit(httpmiddleware.ByIP)).Post("/leads/interest", cfg.Leads.SubmitInterest)
		}
	})

	// Coach-only routes. Without a secret they are open, which is only meant for local development.
	r.Group(func(coach chi.Router) {
		if cfg.AdminAuthSecret != "" {
			coach.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		} else {
			logger.Warn("ADMIN_JWT_SECRET not set; assistant and dashboard routes are unauthenticated")
		}

		if cfg.Webchat != nil {
			coach.Get("/assistant/ws", cfg.Webchat.HandleWebSocket)
		}

		coach.Group(func(api chi.Router) {
			api.Use(middleware.Compress(5))
			if cfg.Assistant != nil {
				api.Route("/assistant/sessions", func(s chi.Router) {
					s.Post("/", cfg.Assistant.CreateSession)
					s.Route("/{sessionID}", func(one chi.Router) {
						one.Get("/", cfg.Assistant.GetSession)
						one.Delete("/", cfg.Assistant.DeleteSession)
						one.With(limit(httpmiddleware.BySession)).Post("/messages", cfg.Assistant.SendMessage)
						one.Post("/reset", cfg.Assistant.ResetSession)
					})
				})
			}
			if cfg.Coach != nil {
				api.Mount("/api", cfg.Coach.Routes())
			}
			if cfg.Leads != nil {
				api.Get("/leads", cfg.Leads.ListLeads)
				api.Patch("/leads/{leadID}", cfg.Leads.UpdateLead)
				api.Post("/leads/{leadID}/convert", cfg.Leads.ConvertLead)
			}
		})
	})

	return r
}
