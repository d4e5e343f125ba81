package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/classify"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/config"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/httpapi"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/infrastructure/ml"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/infrastructure/scheduler"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/infrastructure/storage"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/infrastructure/telegram"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/logging"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/textnorm"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	batch     *usecase.Batch
	scheduler *usecase.Scheduler
	server    *http.Server
}

// New builds a runnable application instance around one database handle.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewPostgresStore(db)

	registry := classify.NewRegistry()
	registry.Register("mock", classify.NewMock())
	if cfg.Inference.URL != "" {
		registry.Register("http", ml.NewClient(cfg.Inference.URL, cfg.Inference.APIKey))
	}

	classifier, err := registry.Resolve(cfg.Analyzer.Classifier)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("select classifier: %w", err)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	batch := usecase.NewBatch(usecase.BatchDeps{
		Store:      store,
		Classifier: classifier,
		Normalizer: textnorm.New(cfg.Analyzer.KeepScriptLanguage, cfg.Analyzer.FallbackLanguage),
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "batch"),
		BatchSize:  cfg.Analyzer.BatchSize,
	})

	application := &Application{
		cfg:    cfg,
		logger: baseLogger,
		db:     db,
		batch:  batch,
	}

	if every := cfg.Scheduler.Every(); every > 0 {
		driver := scheduler.NewIntervalScheduler(every)
		application.scheduler = usecase.NewScheduler(driver, batch, baseLogger.With("component", "scheduler"))
	}

	api := httpapi.NewServer(batch, store, baseLogger.With("component", "httpapi"))
	application.server = &http.Server{Addr: cfg.Server.Addr, Handler: api}

	return application, nil
}

// Run serves HTTP and, when configured, the periodic batch trigger, until
// the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() { _ = a.scheduler.Stop(context.Background()) }()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownErr := a.server.Shutdown(context.Background())
		if shutdownErr != nil {
			return fmt.Errorf("shutdown server: %w", shutdownErr)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// RunOnce executes a single batch pass.
func (a *Application) RunOnce(ctx context.Context) (domain.BatchReport, error) {
	return a.batch.Run(ctx)
}

// Migrate applies the database schema.
func (a *Application) Migrate(ctx context.Context) error {
	return storage.Migrate(ctx, a.db)
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}
