package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/campusvoice/issue-service/internal/api/http"
	"github.com/campusvoice/issue-service/internal/api/http/handlers"
	"github.com/campusvoice/issue-service/internal/auth"
	"github.com/campusvoice/issue-service/internal/config"
	"github.com/campusvoice/issue-service/internal/events"
	"github.com/campusvoice/issue-service/internal/observability"
	"github.com/campusvoice/issue-service/internal/persistence"
	"github.com/campusvoice/issue-service/internal/service"
	"github.com/campusvoice/issue-service/internal/worker"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	cmd := &cobra.Command{
		Use:          "campusvoice",
		Short:        "CampusVoice issue service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.AddCommand(serve, newMigrateCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return serve(commandContext(cmd), cfg, logger)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations to Postgres and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := commandContext(cmd)
			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pg.Close()
			if !pg.Enabled() {
				return fmt.Errorf("POSTGRES_DSN is required to migrate")
			}
			return persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger)
		},
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return nil, nil, err
	}
	return cfg, logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func serve(parent context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	sessionService, err := service.NewSessionService(cfg.Auth, service.SessionDependencies{
		SessionRepo: store.Sessions,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:   store.Issues,
		HistoryRepo: store.History,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	analyticsService := service.NewAnalyticsService(store.Issues)
	directoryService := service.NewDirectoryService(store.Issues)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, nil)
	worker.StartNotificationWorker(notificationService, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.HTTP, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store.Dependencies()),
		Session:        handlers.NewSessionHandler(sessionService),
		Issues:         handlers.NewIssuesHandler(issueService, analyticsService),
		AdminIssues:    handlers.NewAdminIssuesHandler(issueService),
		AdminInsights:  handlers.NewAdminInsightsHandler(analyticsService, directoryService, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(sessionService),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Driver))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber listen: %w", err)
	case sig := <-shutdownSignal():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}
	return app.Shutdown()
}

func shutdownSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
