package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrOutOfStock             = errors.New("product is out of stock")
	ErrConfirmationRequired   = errors.New("confirmation required")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrCheckoutNotImplemented = errors.New("checkout is not implemented")
)

// A Storefront builds the page views of one profile on top of the catalog
// and the profile's cart and wishlist.
//
// Every view loads the catalog once. Operations that need the catalog do
// nothing when it is unavailable.
type Storefront struct {
	catalog port.CatalogLoader
	records port.RecordStorage
	metrics port.Metrics
}

func New(
	catalog port.CatalogLoader,
	records port.RecordStorage,
	metrics port.Metrics,
) Storefront {
	return Storefront{catalog, records, metrics}
}

func (s Storefront) Cart(profile string) CartStore {
	return NewCartStore(s.records, profile, s.metrics)
}

func (s Storefront) Wishlist(profile string) WishlistStore {
	return NewWishlistStore(s.records, profile, s.metrics)
}

// Badge is the cart quantity shown on every page.
func (s Storefront) Badge(ctx context.Context, profile string) (int, error) {
	const op = "Storefront.Badge"

	n, err := s.Cart(profile).TotalQuantity(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s Storefront) Dashboard(
	ctx context.Context, profile string, f domain.Filter,
) (ProductListing, error) {
	const op = "Storefront.Dashboard"

	c, w, badge, err := s.page(ctx, profile)
	if err != nil {
		return ProductListing{}, fmt.Errorf("%s: %w", op, err)
	}

	ps := f.Apply(c)
	return ProductListing{
		Products: newCards(ps, w),
		Count:    len(ps),
		Badge:    badge,
	}, nil
}

// Search matches term against the text fields of every product. An empty
// term yields the search prompt and no products.
func (s Storefront) Search(
	ctx context.Context, profile, term string,
) (SearchView, error) {
	const op = "Storefront.Search"

	c, w, badge, err := s.page(ctx, profile)
	if err != nil {
		return SearchView{}, fmt.Errorf("%s: %w", op, err)
	}

	term = domain.NormalizeSearchTerm(term)
	v := SearchView{Term: term, Badge: badge, Products: []ProductCard{}}
	if term != "" {
		v.Products = newCards(domain.Filter{Text: term}.Apply(c), w)
	}
	v.Message = searchMessage(term, len(v.Products))
	return v, nil
}

func (s Storefront) ProductDetail(
	ctx context.Context, profile string, id domain.ProductID,
) (ProductDetail, error) {
	const op = "Storefront.ProductDetail"

	c, w, badge, err := s.page(ctx, profile)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := c.Product(id)
	if !ok {
		return ProductDetail{}, fmt.Errorf("%s: %w: %d", op, ErrProductNotFound, id)
	}
	return newDetail(p, w, badge), nil
}

func (s Storefront) CartView(ctx context.Context, profile string) (CartView, error) {
	const op = "Storefront.CartView"

	c, err := s.catalog.Load(ctx)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.cartView(ctx, c, profile)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// AddToCart adds qty of an in-stock catalog product and returns the badge.
func (s Storefront) AddToCart(
	ctx context.Context, profile string, id domain.ProductID, qty int,
) (int, error) {
	const op = "Storefront.AddToCart"

	c, err := s.catalog.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := c.Product(id)
	if !ok {
		return 0, fmt.Errorf("%s: %w: %d", op, ErrProductNotFound, id)
	}
	if !p.InStock {
		return 0, fmt.Errorf("%s: %w: %d", op, ErrOutOfStock, id)
	}

	cart := s.Cart(profile)
	if err := cart.Add(ctx, id, qty); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	badge, err := cart.TotalQuantity(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return badge, nil
}

func (s Storefront) ChangeQty(
	ctx context.Context, profile string, id domain.ProductID, delta int,
) (CartView, error) {
	const op = "Storefront.ChangeQty"

	return s.mutateCart(ctx, op, profile, func(cart CartStore) error {
		return cart.ChangeQty(ctx, id, delta)
	})
}

func (s Storefront) RemoveFromCart(
	ctx context.Context, profile string, id domain.ProductID,
) (CartView, error) {
	const op = "Storefront.RemoveFromCart"

	return s.mutateCart(ctx, op, profile, func(cart CartStore) error {
		return cart.Remove(ctx, id)
	})
}

// ClearCart empties the cart only when the user confirmed the action.
func (s Storefront) ClearCart(
	ctx context.Context, profile string, confirmed bool,
) (CartView, error) {
	const op = "Storefront.ClearCart"

	if !confirmed {
		return CartView{}, fmt.Errorf("%s: %w", op, ErrConfirmationRequired)
	}
	return s.mutateCart(ctx, op, profile, func(cart CartStore) error {
		return cart.Clear(ctx)
	})
}

// Checkout only validates that the cart is not empty.
func (s Storefront) Checkout(ctx context.Context, profile string) error {
	const op = "Storefront.Checkout"

	lines, err := s.Cart(profile).Lines(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}
	return fmt.Errorf("%s: %w", op, ErrCheckoutNotImplemented)
}

func (s Storefront) WishlistView(
	ctx context.Context, profile string,
) (WishlistView, error) {
	const op = "Storefront.WishlistView"

	c, err := s.catalog.Load(ctx)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.wishlistView(ctx, c, profile)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// ToggleWishlist flips membership of a catalog product.
func (s Storefront) ToggleWishlist(
	ctx context.Context, profile string, id domain.ProductID,
) (bool, error) {
	const op = "Storefront.ToggleWishlist"

	c, err := s.catalog.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := c.Product(id); !ok {
		return false, fmt.Errorf("%s: %w: %d", op, ErrProductNotFound, id)
	}

	added, err := s.Wishlist(profile).Toggle(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return added, nil
}

// RemoveFromWishlist removes id even when it no longer resolves in the
// catalog, so stale entries can be dropped.
func (s Storefront) RemoveFromWishlist(
	ctx context.Context, profile string, id domain.ProductID,
) (WishlistView, error) {
	const op = "Storefront.RemoveFromWishlist"

	c, err := s.catalog.Load(ctx)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.Wishlist(profile).Remove(ctx, id); err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.wishlistView(ctx, c, profile)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// page loads what every product list page shows.
func (s Storefront) page(
	ctx context.Context, profile string,
) (domain.Catalog, domain.Wishlist, int, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.Catalog{}, nil, 0, err
	}

	w, err := s.Wishlist(profile).IDs(ctx)
	if err != nil {
		return domain.Catalog{}, nil, 0, err
	}

	badge, err := s.Cart(profile).TotalQuantity(ctx)
	if err != nil {
		return domain.Catalog{}, nil, 0, err
	}
	return c, w, badge, nil
}

func (s Storefront) mutateCart(
	ctx context.Context, op, profile string, mutate func(CartStore) error,
) (CartView, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := mutate(s.Cart(profile)); err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.cartView(ctx, c, profile)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s Storefront) cartView(
	ctx context.Context, c domain.Catalog, profile string,
) (CartView, error) {
	cart, err := s.Cart(profile).Lines(ctx)
	if err != nil {
		return CartView{}, err
	}

	w, err := s.Wishlist(profile).IDs(ctx)
	if err != nil {
		return CartView{}, err
	}
	return newCartView(c, cart, w, s.metrics), nil
}

func (s Storefront) wishlistView(
	ctx context.Context, c domain.Catalog, profile string,
) (WishlistView, error) {
	w, err := s.Wishlist(profile).IDs(ctx)
	if err != nil {
		return WishlistView{}, err
	}

	badge, err := s.Cart(profile).TotalQuantity(ctx)
	if err != nil {
		return WishlistView{}, err
	}
	return newWishlistView(c, w, badge, s.metrics), nil
}
