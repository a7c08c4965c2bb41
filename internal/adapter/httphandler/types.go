package httphandler

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// Amounts are rendered with two decimals.

type (
	ProductCard struct {
		ID                 int64   `json:"id"`
		Name               string  `json:"name"`
		Brand              string  `json:"brand"`
		Category           string  `json:"category"`
		Price              string  `json:"price"`
		ReviewsStarAverage float64 `json:"reviews_star_average"`
		ReviewsCount       int     `json:"reviews_count"`
		Image              string  `json:"image"`
		FallbackImage      string  `json:"fallback_image"`
		InStock            bool    `json:"in_stock"`
		InWishlist         bool    `json:"in_wishlist"`
		DetailPath         string  `json:"detail_path"`
	}

	ProductList struct {
		Products []ProductCard `json:"products"`
		Count    int           `json:"count"`
		Badge    int           `json:"badge"`
	}

	SearchResult struct {
		Term     string        `json:"term"`
		Message  string        `json:"message"`
		Products []ProductCard `json:"products"`
		Count    int           `json:"count"`
		Badge    int           `json:"badge"`
	}

	ProductDetail struct {
		ProductCard
		SKU            string `json:"sku"`
		Description    string `json:"description"`
		Stars          int    `json:"stars"`
		StockStatus    string `json:"stock_status"`
		CanAddToCart   bool   `json:"can_add_to_cart"`
		WishlistAction string `json:"wishlist_action"`
		Badge          int    `json:"badge"`
	}

	CartLine struct {
		Product   ProductCard `json:"product"`
		Qty       int         `json:"qty"`
		LineTotal string      `json:"line_total"`
	}

	CartSummary struct {
		Subtotal string `json:"subtotal"`
		Shipping string `json:"shipping"`
		Tax      string `json:"tax"`
		Total    string `json:"total"`
	}

	Cart struct {
		Lines   []CartLine  `json:"lines"`
		Summary CartSummary `json:"summary"`
		Badge   int         `json:"badge"`
		Empty   bool        `json:"empty"`
	}

	Wishlist struct {
		Title string        `json:"title"`
		Count int           `json:"count"`
		Items []ProductCard `json:"items"`
		Badge int           `json:"badge"`
		Empty bool          `json:"empty"`
	}

	Badge struct {
		Badge int `json:"badge"`
	}

	WishlistToggle struct {
		ProductID  int64 `json:"product_id"`
		InWishlist bool  `json:"in_wishlist"`
	}
)

// Quantities in one request are bounded by 100000 items.
type (
	AddCartItem struct {
		ProductID *int64 `json:"product_id" validate:"required"`
		Qty       *int   `json:"qty" validate:"omitempty,gte=1,lte=100000"`
	}

	ChangeCartItem struct {
		Delta int `json:"delta" validate:"required,gte=-100000,lte=100000"`
	}
)

func toCard(c service.ProductCard) ProductCard {
	p := c.Product
	return ProductCard{
		ID:                 int64(p.ID),
		Name:               p.Name,
		Brand:              p.Brand,
		Category:           p.Category,
		Price:              domain.FormatMoney(p.Price),
		ReviewsStarAverage: p.ReviewsStarAverage,
		ReviewsCount:       p.ReviewsCount,
		Image:              c.ImageURL,
		FallbackImage:      domain.PlaceholderImage,
		InStock:            p.InStock,
		InWishlist:         c.InWishlist,
		DetailPath:         c.DetailPath,
	}
}

func toCards(cs []service.ProductCard) []ProductCard {
	cards := make([]ProductCard, len(cs))
	for i, c := range cs {
		cards[i] = toCard(c)
	}
	return cards
}

func toProductList(v service.ProductListing) ProductList {
	return ProductList{
		Products: toCards(v.Products),
		Count:    v.Count,
		Badge:    v.Badge,
	}
}

func toSearchResult(v service.SearchView) SearchResult {
	return SearchResult{
		Term:     v.Term,
		Message:  v.Message,
		Products: toCards(v.Products),
		Count:    len(v.Products),
		Badge:    v.Badge,
	}
}

func toProductDetail(v service.ProductDetail) ProductDetail {
	return ProductDetail{
		ProductCard:    toCard(v.ProductCard),
		SKU:            v.Product.SKU,
		Description:    v.Product.Description,
		Stars:          v.Stars,
		StockStatus:    v.StockStatus,
		CanAddToCart:   v.CanAddToCart,
		WishlistAction: v.WishlistAction,
		Badge:          v.Badge,
	}
}

func toCart(v service.CartView) Cart {
	lines := make([]CartLine, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = CartLine{
			Product:   toCard(l.Card),
			Qty:       l.Qty,
			LineTotal: domain.FormatMoney(l.LineTotal),
		}
	}
	return Cart{
		Lines: lines,
		Summary: CartSummary{
			Subtotal: domain.FormatMoney(v.Summary.Subtotal),
			Shipping: domain.FormatMoney(v.Summary.Shipping),
			Tax:      domain.FormatMoney(v.Summary.Tax),
			Total:    domain.FormatMoney(v.Summary.Total),
		},
		Badge: v.Badge,
		Empty: v.Empty,
	}
}

func toWishlist(v service.WishlistView) Wishlist {
	return Wishlist{
		Title: v.Title,
		Count: v.Count,
		Items: toCards(v.Items),
		Badge: v.Badge,
		Empty: v.Empty,
	}
}
