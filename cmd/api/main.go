package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/config"
	domainListview "github.com/cmlabs-hris/employee-directory/internal/domain/listview"
	appHTTP "github.com/cmlabs-hris/employee-directory/internal/handler/http"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/cron"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/database"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/i18n"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/logger"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/metrics"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/sse"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
	"github.com/cmlabs-hris/employee-directory/internal/repository/postgresql"
	"github.com/cmlabs-hris/employee-directory/internal/repository/redis"
	"github.com/cmlabs-hris/employee-directory/internal/repository/sqlite"
	employeeService "github.com/cmlabs-hris/employee-directory/internal/service/employee"
	listviewService "github.com/cmlabs-hris/employee-directory/internal/service/listview"
	"github.com/cmlabs-hris/employee-directory/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.Options{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Version: version,
		Concise: cfg.IsProduction(),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(reg)

	backend, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.close()
	log.Info("Storage ready", "driver", cfg.Storage.Driver)
	kv := backend.kv

	employeeStore, err := store.New(ctx, kv,
		store.WithLogger(log),
		store.WithMetrics(appMetrics),
	)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}

	i18nService, err := i18n.NewService(cfg.App.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	hub := sse.NewHub()
	viewManager := listviewService.NewManager(employeeStore, kv,
		listviewService.WithManagerLogger(log),
		listviewService.WithManagerMetrics(appMetrics),
		listviewService.WithPageSize(cfg.ListView.ItemsPerPage),
		listviewService.WithOpenHook(hub.OpenView),
		listviewService.WithSnapshotHook(func(viewID string, snap domainListview.Snapshot) {
			hub.Publish(viewID, sse.Event{Event: sse.EventSnapshot, Data: snap})
		}),
		listviewService.WithCloseHook(hub.CloseView),
	)
	defer viewManager.CloseAll()

	unsubscribeLanguage := i18nService.Subscribe(func(lang string) {
		hub.Broadcast(sse.Event{Event: sse.EventLanguage, Data: map[string]string{"language": lang}})
	})
	defer unsubscribeLanguage()

	scheduler := cron.NewScheduler(ctx, log)
	cron.NewViewJobs(viewManager, cfg.ListView.IdleTimeout).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	employeeSvc := employeeService.NewEmployeeService(employeeStore, log)

	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	listViewHandler := appHTTP.NewListViewHandler(viewManager, hub, i18nService)
	i18nHandler := appHTTP.NewI18nHandler(i18nService)
	healthHandler := appHTTP.NewHealthHandler(cfg.Storage.Driver, backend.check, viewManager, hub)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         log,
			AllowedOrigins: cfg.App.CORSOrigins,
			Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		},
		employeeHandler,
		listViewHandler,
		i18nHandler,
		healthHandler,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", "addr", srv.Addr)
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

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ending the streams first lets Shutdown finish without waiting on open SSE connections
	viewManager.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// storageBackend is the selected durable backend with its readiness check and release func.
type storageBackend struct {
	kv    storage.Storage
	check appHTTP.StorageCheck
	close func()
}

// openStorage returns the backend selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config) (*storageBackend, error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case config.StorageLocal:
		kv, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return &storageBackend{kv: kv, close: noop}, nil

	case config.StorageMemory:
		return &storageBackend{kv: storage.NewMemoryStorage(), close: noop}, nil

	case config.StoragePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		kv, err := postgresql.NewKVStorage(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &storageBackend{kv: kv, check: db.Ping, close: db.Close}, nil

	case config.StorageRedis:
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return &storageBackend{
			kv:    redis.NewKVStorage(client, logger.AppName+":"),
			check: client.Health,
			close: func() { _ = client.Close() },
		}, nil

	case config.StorageSQLite:
		kv, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return &storageBackend{kv: kv, check: kv.Ping, close: func() { _ = kv.Close() }}, nil
	}

	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
}
