package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/wolfman30/coachflow/internal/api/router"
	"github.com/wolfman30/coachflow/internal/assistant"
	"github.com/wolfman30/coachflow/internal/coach"
	appconfig "github.com/wolfman30/coachflow/internal/config"
	"github.com/wolfman30/coachflow/internal/dashboard"
	"github.com/wolfman30/coachflow/internal/leads"
	"github.com/wolfman30/coachflow/internal/notify"
	"github.com/wolfman30/coachflow/internal/observability/metrics"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Runtime is the wired object graph shared by the server and the terminal chat.
type Runtime struct {
	Coach          *coach.Service
	Leads          leads.Repository
	Manager        *assistant.Manager
	MetricsHandler http.Handler
	HealthChecks   map[string]router.HealthCheck

	closers []func()
}

// Close releases every connection opened by Build, newest first.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// Build wires storage, reminders, the coaching service and the assistant from cfg.
// Postgres and Redis are used when configured, otherwise everything lives in memory.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{HealthChecks: map[string]router.HealthCheck{}}

	store, dash, err := rt.buildStorage(ctx, cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	reminders := notify.NewReminderSender(BuildEmailSender(cfg, logger), logger)
	rt.Coach = coach.NewService(store, dash, reminders, coach.ServiceConfig{
		PaymentBaseURL: cfg.PaymentLinkBaseURL,
		Currency:       cfg.PaymentCurrency,
	}, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rt.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	a := assistant.New(rt.Coach, assistant.Options{
		Timeout:               cfg.CollaboratorTimeout,
		DefaultSessionMinutes: cfg.DefaultSessionMinutes,
		Metrics:               metrics.NewAssistantMetrics(reg),
		Logger:                logger,
	})
	rt.Manager = assistant.NewManager(a, rt.buildSessionStore(ctx, cfg, logger), logger)
	return rt, nil
}

func (rt *Runtime) buildStorage(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (coach.Store, coach.Dashboard, error) {
	if !cfg.UsePostgres() {
		logger.Info("DATABASE_URL not set, using in-memory coach store")
		mem := coach.NewMemoryStore()
		leadRepo := leads.NewInMemoryRepository()
		rt.Leads = leadRepo
		return mem, memoryDashboard{stats: mem, leads: leadRepo}, nil
	}

	pool, err := BuildPostgresPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	rt.closers = append(rt.closers, pool.Close)
	rt.HealthChecks["postgres"] = func(ctx context.Context) error { return pool.Ping(ctx) }

	db, err := BuildSQLDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	rt.closers = append(rt.closers, func() { _ = db.Close() })

	rt.Leads = leads.NewPostgresRepository(pool)
	logger.Info("using postgres coach store")
	return coach.NewPostgresStore(pool), dashboard.NewRepository(db), nil
}

func (rt *Runtime) buildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) assistant.SessionStore {
	client := BuildRedisClient(ctx, cfg, logger, true)
	return rt.sessionStoreFor(client, cfg)
}

func (rt *Runtime) sessionStoreFor(client *redis.Client, cfg *appconfig.Config) assistant.SessionStore {
	if client == nil {
		return assistant.NewMemorySessionStore()
	}
	rt.closers = append(rt.closers, func() { _ = client.Close() })
	rt.HealthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return assistant.NewRedisSessionStore(client, cfg.SessionTTL, otel.Tracer("coachflow/assistant"))
}

// BuildEmailSender returns SendGrid when an API key is configured and the logging stub otherwise.
func BuildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sg == nil {
		return notify.NewStubEmailSender(logger)
	}
	return sg
}

// memoryDashboard serves leads captured by the public form alongside the memory store's figures.
type memoryDashboard struct {
	stats interface {
		Stats(ctx context.Context) (*coach.Stats, error)
	}
	leads leads.Repository
}

func (d memoryDashboard) Stats(ctx context.Context) (*coach.Stats, error) {
	return d.stats.Stats(ctx)
}

func (d memoryDashboard) Leads(ctx context.Context) ([]coach.Lead, error) {
	captured, err := d.leads.List(ctx, leads.ListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]coach.Lead, 0, len(captured))
	for _, l := range captured {
		out = append(out, coach.Lead{
			ID:        l.ID,
			Name:      l.Name,
			Phone:     l.Phone,
			Source:    l.Source,
			Status:    string(l.Status),
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}
