package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.CatalogProducer = (*CatalogProducer)(nil)

// A CatalogProducer publishes [domain.Product] records keyed by product id,
// so the compacted topic keeps the latest version of every product.
type CatalogProducer struct {
	cl       ProducerClient
	encoder  Encoder
	opPrefix string
}

func NewCatalogProducer(opts ...ProducerOpt) (CatalogProducer, error) {
	const op = "NewCatalogProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CatalogProducer{}, opErr(err, op)
		}
	}

	return CatalogProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		opPrefix: "CatalogProducer",
	}, nil
}

func (p CatalogProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p CatalogProducer) ProduceCatalog(
	ctx context.Context, ps []domain.Product,
) error {
	const op = "ProduceCatalog"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	rs, err := p.createRecords(ps)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if len(rs) == 0 {
		return nil
	}

	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	slog.Info("catalog produced", "op", makeOp(p.opPrefix, op), "products", len(rs))
	return nil
}

func (p CatalogProducer) createRecords(
	ps []domain.Product,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	for _, v := range ps {
		s := p.toSchema(v)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		rs = append(rs, &kgo.Record{Key: recordKey(v.ID), Value: b})
	}

	return rs, nil
}

func (CatalogProducer) toSchema(v domain.Product) schema.CatalogProductV1 {
	return productToSchemaV1(v)
}
