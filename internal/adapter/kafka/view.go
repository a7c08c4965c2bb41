package kafka

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/IBM/sarama"
	"github.com/lovoo/goka"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

// A catalogProductCodec used for serde [schema.CatalogProductV1]
type catalogProductCodec struct {
	serde Serde
}

func (c catalogProductCodec) Encode(v any) ([]byte, error) {
	const op = "catalogProductCodec.Encode"
	if _, ok := v.(schema.CatalogProductV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c catalogProductCodec) Decode(data []byte) (any, error) {
	const op = "catalogProductCodec.Decode"
	var s schema.CatalogProductV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// table is the part of [goka.View] the catalog reads.
type table interface {
	Run(ctx context.Context) error
	Recovered() bool
	Iterator() (goka.Iterator, error)
}

// A CatalogViewConfig used for setup [CatalogView].
//
// TLSConfig is optional, other fields are required.
type CatalogViewConfig struct {
	SeedBrokers []string
	Topic       string
	Serde       Serde
	TLSConfig   *tls.Config
}

var _ port.BackgroundCatalogSource = (*CatalogView)(nil)

// CatalogView serves the catalog from a local copy of the catalog table.
// It must be running and recovered before FetchCatalog succeeds.
type CatalogView struct {
	gv table

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCatalogView(config CatalogViewConfig) (*CatalogView, error) {
	const op = "NewCatalogView"

	opts := []goka.ViewOption{goka.WithViewLogger(discardLogger())}
	if config.TLSConfig != nil {
		opts = append(opts, withTLS(config.TLSConfig)...)
	}

	gv, err := goka.NewView(
		config.SeedBrokers,
		goka.Table(config.Topic),
		catalogProductCodec{config.Serde},
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return newCatalogView(gv), nil
}

func newCatalogView(gv table) *CatalogView {
	return &CatalogView{gv: gv, done: make(chan struct{})}
}

func withTLS(tlsConfig *tls.Config) []goka.ViewOption {
	return saramaOpts(tlsSaramaConfig(tlsConfig))
}

// tlsSaramaConfig is the goka default consumer config dialing over TLS.
func tlsSaramaConfig(tlsConfig *tls.Config) *sarama.Config {
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	return cfg
}

func saramaOpts(cfg *sarama.Config) []goka.ViewOption {
	return []goka.ViewOption{
		goka.WithViewConsumerSaramaBuilder(goka.SaramaConsumerBuilderWithConfig(cfg)),
		goka.WithViewTopicManagerBuilder(
			goka.TopicManagerBuilderWithConfig(cfg, goka.NewTopicManagerConfig()),
		),
	}
}

// Run blocks until ctx is done, Close is called or the view fails.
func (v *CatalogView) Run(ctx context.Context) error {
	const op = "CatalogView.Run"
	log := slog.With("op", op)

	ctx, cancel := context.WithCancel(ctx)
	v.mu.Lock()
	if v.cancel != nil {
		v.mu.Unlock()
		cancel()
		return opErr(errors.New("view is already running"), op)
	}
	v.cancel = cancel
	v.mu.Unlock()
	defer close(v.done)

	log.Info("catalog view is running")
	err := v.gv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("unexpected fail on run", "err", err)
		return opErr(err, op)
	}
	log.Info("catalog view is stopped")
	return nil
}

func (v *CatalogView) Close() {
	v.mu.Lock()
	cancel := v.cancel
	v.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-v.done
}

// FetchCatalog returns the products of the table ordered by id.
func (v *CatalogView) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogView.FetchCatalog"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	if !v.gv.Recovered() {
		return nil, opErr(ErrNotRecovered, op)
	}

	it, err := v.gv.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}
	defer it.Release()

	ps := []domain.Product{}
	for it.Next() {
		value, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}
		if value == nil {
			continue
		}
		s, ok := value.(schema.CatalogProductV1)
		if !ok {
			return nil, opErr(
				fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
			)
		}
		p, err := schemaV1ToProduct(s)
		if err != nil {
			return nil, opErr(err, op)
		}
		ps = append(ps, p)
	}
	if err := it.Err(); err != nil {
		return nil, opErr(err, op)
	}

	slices.SortFunc(ps, func(a, b domain.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return ps, nil
}
