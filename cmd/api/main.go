package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/coachflow/internal/api/router"
	"github.com/wolfman30/coachflow/internal/app/bootstrap"
	appconfig "github.com/wolfman30/coachflow/internal/config"
	"github.com/wolfman30/coachflow/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/coachflow/internal/http/middleware"
	"github.com/wolfman30/coachflow/internal/leads"
	"github.com/wolfman30/coachflow/internal/webchat"
	"github.com/wolfman30/coachflow/pkg/logging"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a coach JWT for the given subject and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of the token printed by -issue-token")
	flag.Parse()

	_ = godotenv.Load()
	cfg := appconfig.Load()

	if *issueToken != "" {
		token, err := httpmiddleware.IssueAdminToken(cfg.AdminJWTSecret, *issueToken, "", *tokenTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting coachflow API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	rt, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     newHandler(ctx, cfg, rt, logger),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: websocket connections are long-lived.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func newHandler(ctx context.Context, cfg *appconfig.Config, rt *bootstrap.Runtime, logger *logging.Logger) http.Handler {
	chat := webchat.NewHandler(rt.Manager, logger)
	return router.New(&router.Config{
		Logger:             logger,
		Assistant:          handlers.NewAssistantHandler(rt.Manager, chat, logger),
		Coach:              handlers.NewCoachHandler(rt.Coach, logger),
		Webchat:            chat,
		Leads:              leads.NewHandler(rt.Leads, rt.Coach, logger),
		MetricsHandler:     rt.MetricsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        httpmiddleware.NewRateLimiter(ctx, cfg.AssistantRateLimit, cfg.AssistantRateBurst),
		HealthChecks:       rt.HealthChecks,
	})
}
