package port

import (
	"context"
	"errors"

	"github.com/niksmo/storefront/internal/core/domain"
)

var ErrRecordNotFound = errors.New("record not found")

type (
	runner interface {
		Run(context.Context) error
	}

	closer interface {
		Close()
	}
)

// RecordStorage persists serialized records per profile, the way a
// browser keeps localStorage per profile.
//
// Get reports [ErrRecordNotFound] for an absent record.
type RecordStorage interface {
	Get(ctx context.Context, profile, key string) ([]byte, error)
	Set(ctx context.Context, profile, key string, value []byte) error
	Delete(ctx context.Context, profile, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// CatalogSource fetches the raw catalog once per call.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]domain.Product, error)
}

// BackgroundCatalogSource is a source backed by a long-running reader.
type BackgroundCatalogSource interface {
	CatalogSource
	runner
	closer
}

type CatalogLoader interface {
	Load(ctx context.Context) (domain.Catalog, error)
}

type CartStore interface {
	Add(ctx context.Context, id domain.ProductID, qty int) error
	ChangeQty(ctx context.Context, id domain.ProductID, delta int) error
	Remove(ctx context.Context, id domain.ProductID) error
	Clear(ctx context.Context) error
	TotalQuantity(ctx context.Context) (int, error)
	Lines(ctx context.Context) (domain.Cart, error)
}

type WishlistStore interface {
	Toggle(ctx context.Context, id domain.ProductID) (bool, error)
	Contains(ctx context.Context, id domain.ProductID) (bool, error)
	Remove(ctx context.Context, id domain.ProductID) error
	IDs(ctx context.Context) (domain.Wishlist, error)
}

// Metrics records store and catalog activity.
type Metrics interface {
	CatalogLoaded(err error)
	CartMutated(op string)
	WishlistToggled(added bool)
	MissingProduct(view string)
}

// CatalogProducer publishes catalog products to the catalog topic.
type CatalogProducer interface {
	ProduceCatalog(context.Context, []domain.Product) error
	closer
}
