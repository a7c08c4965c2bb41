// Package kafka keeps the product catalog in a compacted topic: a
// producer publishes it and a goka view serves it to the storefront.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
	ErrNotRecovered     = errors.New("catalog view is not recovered")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}
		if tlsConfig != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt sets a client built by the caller.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

// recordKey is the compaction key of a catalog product.
func recordKey(id domain.ProductID) []byte {
	return []byte(id.String())
}

func productToSchemaV1(v domain.Product) (s schema.CatalogProductV1) {
	s.ID = int64(v.ID)
	s.Name = v.Name
	s.Brand = v.Brand
	s.Category = v.Category
	s.Price = v.Price.String()
	s.Images = v.Images
	if s.Images == nil {
		s.Images = []string{}
	}
	s.Image = v.Image
	s.Description = v.Description
	s.SKU = v.SKU
	s.ReviewsStarAverage = v.ReviewsStarAverage
	s.ReviewsCount = int64(v.ReviewsCount)
	s.InStock = v.InStock
	return
}

func schemaV1ToProduct(s schema.CatalogProductV1) (domain.Product, error) {
	price, err := decimal.NewFromString(s.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d price: %w", s.ID, err)
	}
	return domain.Product{
		ID:                 domain.ProductID(s.ID),
		Name:               s.Name,
		Brand:              s.Brand,
		Category:           s.Category,
		Price:              price,
		Images:             s.Images,
		Image:              s.Image,
		Description:        s.Description,
		SKU:                s.SKU,
		ReviewsStarAverage: s.ReviewsStarAverage,
		ReviewsCount:       int(s.ReviewsCount),
		InStock:            s.InStock,
	}, nil
}
