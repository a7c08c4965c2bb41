package service

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Views carry exact amounts; the presentation layer rounds them.

type ProductCard struct {
	Product    domain.Product
	ImageURL   string
	InWishlist bool
	DetailPath string
}

type ProductListing struct {
	Products []ProductCard
	Count    int
	Badge    int
}

type SearchView struct {
	Term     string
	Message  string
	Products []ProductCard
	Badge    int
}

type ProductDetail struct {
	ProductCard
	Stars          int
	StockStatus    string
	CanAddToCart   bool
	WishlistAction string
	Badge          int
}

type CartView struct {
	Lines   []CartViewLine
	Summary domain.Summary
	Badge   int
	Empty   bool
}

type CartViewLine struct {
	Card      ProductCard
	Qty       int
	LineTotal decimal.Decimal
}

type WishlistView struct {
	Title string
	Count int
	Items []ProductCard
	Badge int
	Empty bool
}

const (
	searchPrompt   = "Please enter a search term"
	stockIn        = "In Stock"
	stockOut       = "Out of Stock"
	wishlistAdd    = "Add to Wishlist"
	wishlistRemove = "Remove from Wishlist"
)

func newCard(p domain.Product, w domain.Wishlist) ProductCard {
	return ProductCard{
		Product:    p,
		ImageURL:   p.ImageURL(),
		InWishlist: w.Contains(p.ID),
		DetailPath: "Product.html?id=" + p.ID.String(),
	}
}

func newCards(ps []domain.Product, w domain.Wishlist) []ProductCard {
	cards := make([]ProductCard, len(ps))
	for i, p := range ps {
		cards[i] = newCard(p, w)
	}
	return cards
}

func searchMessage(term string, n int) string {
	switch {
	case term == "":
		return searchPrompt
	case n == 0:
		return "No products found for " + quoted(term)
	default:
		return fmt.Sprintf("Found %d product(s) for ", n) + quoted(term)
	}
}

// quoted wraps term in double quotes without escaping it.
func quoted(term string) string {
	return `"` + term + `"`
}

func newDetail(p domain.Product, w domain.Wishlist, badge int) ProductDetail {
	d := ProductDetail{
		ProductCard:    newCard(p, w),
		Stars:          p.Stars(),
		StockStatus:    stockOut,
		CanAddToCart:   p.InStock,
		WishlistAction: wishlistAdd,
		Badge:          badge,
	}
	if p.InStock {
		d.StockStatus = stockIn
	}
	if d.InWishlist {
		d.WishlistAction = wishlistRemove
	}
	return d
}

func newCartView(
	c domain.Catalog, cart domain.Cart, w domain.Wishlist, m port.Metrics,
) CartView {
	const op = "newCartView"

	resolved, missing := domain.ResolveCart(c, cart)
	for _, id := range missing {
		slog.Warn("product not found for cart line", "op", op, "productID", id)
		m.MissingProduct("cart")
	}

	lines := make([]CartViewLine, len(resolved))
	for i, l := range resolved {
		lines[i] = CartViewLine{
			Card:      newCard(l.Product, w),
			Qty:       l.Qty,
			LineTotal: l.Total(),
		}
	}

	return CartView{
		Lines:   lines,
		Summary: domain.Summarize(resolved),
		Badge:   cart.TotalQuantity(),
		Empty:   len(cart) == 0,
	}
}

func newWishlistView(
	c domain.Catalog, w domain.Wishlist, badge int, m port.Metrics,
) WishlistView {
	const op = "newWishlistView"

	items := make([]ProductCard, 0, len(w))
	for _, id := range w {
		p, ok := c.Product(id)
		if !ok {
			slog.Warn("product not found for wishlist entry", "op", op, "productID", id)
			m.MissingProduct("wishlist")
			continue
		}
		items = append(items, newCard(p, w))
	}

	return WishlistView{
		Title: fmt.Sprintf("My Wishlist (%d items)", len(w)),
		Count: len(w),
		Items: items,
		Badge: badge,
		Empty: len(w) == 0,
	}
}
