package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
)

type App struct {
	ctx        context.Context
	cfg        config.Config
	metrics    *metrics.Recorder
	records    port.RecordStorage
	source     port.CatalogSource
	view       port.BackgroundCatalogSource
	storefront service.Storefront
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initMetrics()
	app.initStorage()
	app.initCatalog()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.Level()}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initMetrics() {
	app.metrics = metrics.NewRecorder()
}

func (app *App) initStorage() {
	const op = "App.initStorage"
	cfg := app.cfg.Storage

	var records port.RecordStorage
	switch cfg.Driver {
	case storage.DriverMemory:
		records = storage.NewMemoryStorage()
	case storage.DriverFile:
		records = storage.NewOSFileStorage(cfg.FileRoot)
	case storage.DriverSQL:
		db, err := storage.OpenSQLDB(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			app.fallDown(op, err)
		}
		records = storage.NewSQLStorage(db)
	case storage.DriverRedis:
		cl := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		records = storage.NewRedisStorage(cl, cfg.RedisTTL)
	default:
		app.fallDown(op, fmt.Errorf("unknown storage driver %q", cfg.Driver))
	}

	readiness := retry.Policy{
		Attempts: cfg.ConnectAttempts,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			slog.Warn(
				"storage is not ready",
				"op", op, "attempt", attempt, "wait", wait, "err", err,
			)
		},
	}
	err := retry.Do(app.ctx, readiness, records.Ping)
	if err != nil {
		app.fallDown(op, err)
	}

	slog.Info("storage is ready", "op", op, "driver", cfg.Driver)
	app.records = records
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"
	cfg := app.cfg.Catalog

	switch cfg.Source {
	case catalog.SourceFile:
		app.source = catalog.NewFileSource(afero.NewOsFs(), cfg.Path)
	case catalog.SourceHTTP:
		app.source = catalog.NewHTTPSource(cfg.URL, cfg.HTTPTimeout)
	case catalog.SourceKafka:
		view := app.newCatalogView()
		app.source = view
		app.view = view
	default:
		app.fallDown(op, fmt.Errorf("unknown catalog source %q", cfg.Source))
	}
}

func (app *App) newCatalogView() *kafka.CatalogView {
	const op = "App.newCatalogView"
	cfg := app.cfg.Catalog

	srClient, err := sr.NewClient(sr.URLs(cfg.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewCatalogProductSerde(
		app.ctx,
		schema.TopicOpt(cfg.Topic),
		schema.RegistryOpt(schema.NewRegistryClient(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewCatalogView(kafka.CatalogViewConfig{
		SeedBrokers: cfg.SeedBrokers,
		Topic:       cfg.Topic,
		Serde:       serde,
		TLSConfig:   app.tlsConfig(),
	})
	if err != nil {
		app.fallDown(op, err)
	}
	return view
}

// tlsConfig is nil when no CA is configured.
func (app *App) tlsConfig() *tls.Config {
	const op = "App.tlsConfig"
	files := app.cfg.Catalog.TLS
	if !files.Enabled() {
		return nil
	}

	cfg, err := adapter.MakeTLSConfig(afero.NewOsFs(), files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	return cfg
}

func (app *App) initCoreService() {
	loader := service.NewCatalogLoader(app.source, app.metrics)
	app.storefront = service.New(loader, app.records, app.metrics)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterStorefront(mux, app.storefront)
	httphandler.RegisterHealth(mux, app.records)
	mux.Handle("GET /metrics", app.metrics.Handler())

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr,
		app.metrics.Middleware(mux),
		app.cfg.HTTPHandlerTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if app.view != nil {
		go func() {
			if err := app.view.Run(app.ctx); err != nil {
				slog.Error("catalog view is down", "err", err)
				stopFn()
			}
		}()
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.view != nil {
		app.view.Close()
	}
	if err := app.records.Close(); err != nil {
		slog.Error("failed to close storage", "err", err)
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
