package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

var _ port.CatalogLoader = (*CatalogLoader)(nil)

// A CatalogLoader reads the catalog from its source on every call.
//
// Any failure is reported as [ErrCatalogUnavailable]; a partial catalog is
// never returned.
type CatalogLoader struct {
	source   port.CatalogSource
	metrics  port.Metrics
	validate *validator.Validate
}

func NewCatalogLoader(source port.CatalogSource, metrics port.Metrics) CatalogLoader {
	return CatalogLoader{
		source:   source,
		metrics:  metrics,
		validate: newProductValidator(),
	}
}

func (l CatalogLoader) Load(ctx context.Context) (domain.Catalog, error) {
	const op = "CatalogLoader.Load"
	log := slog.With("op", op)

	c, err := l.load(ctx)
	l.metrics.CatalogLoaded(err)
	if err != nil {
		log.Error("failed to load catalog", "err", err)
		return domain.Catalog{}, fmt.Errorf(
			"%s: %w: %w", op, ErrCatalogUnavailable, err,
		)
	}
	log.Debug("catalog loaded", "nProducts", c.Len())
	return c, nil
}

func (l CatalogLoader) load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}

	ps, err := l.source.FetchCatalog(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}

	for _, p := range ps {
		if err := l.validate.Struct(p); err != nil {
			return domain.Catalog{}, fmt.Errorf("product %d: %w", p.ID, err)
		}
	}

	return domain.NewCatalog(ps)
}

func newProductValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

func decimalValue(v reflect.Value) any {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}
