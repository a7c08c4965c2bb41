// Catalogseed publishes a catalog document into the catalog topic.
package main

import (
	"context"
	"crypto/tls"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
)

const fileFlag = "file"

func main() {
	sigCtx, closeApp := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer closeApp()

	_ = pflag.String("config", "", "config file")
	file := pflag.StringP(fileFlag, "f", "", "catalog document, defaults to catalog.path")
	pflag.Parse()

	cfg := config.Load()
	initLogger(cfg)

	path := *file
	if path == "" {
		path = cfg.Catalog.Path
	}

	fsys := afero.NewOsFs()
	loader := service.NewCatalogLoader(catalog.NewFileSource(fsys, path), metrics.Nop{})
	c, err := loader.Load(sigCtx)
	if err != nil {
		die("failed to read catalog", err)
	}

	producer := createProducer(sigCtx, cfg, fsys)
	defer producer.Close()

	if err := producer.ProduceCatalog(sigCtx, c.Products()); err != nil {
		die("failed to publish catalog", err)
	}
	slog.Info("catalog published", "file", path, "topic", cfg.Catalog.Topic, "products", c.Len())
}

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
}

func createProducer(
	ctx context.Context, cfg config.Config, fsys afero.Fs,
) kafka.CatalogProducer {
	srClient, err := sr.NewClient(sr.URLs(cfg.Catalog.SchemaRegistryURLs...))
	if err != nil {
		die("failed to create schema registry client", err)
	}

	serde, err := schema.NewCatalogProductSerde(
		ctx,
		schema.TopicOpt(cfg.Catalog.Topic),
		schema.RegistryOpt(schema.NewRegistryClient(srClient)),
	)
	if err != nil {
		die("failed to register schema", err)
	}

	var tlsConfig *tls.Config
	if files := cfg.Catalog.TLS; files.Enabled() {
		tlsConfig, err = adapter.MakeTLSConfig(fsys, files.CA, files.Cert, files.Key)
		if err != nil {
			die("failed to load tls files", err)
		}
	}

	p, err := kafka.NewCatalogProducer(
		kafka.ProducerClientOpt(ctx, cfg.Catalog.SeedBrokers, cfg.Catalog.Topic, tlsConfig),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		die("failed to create producer", err)
	}
	return p
}

func die(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(2)
}
