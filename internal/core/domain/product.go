package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown when a product has no image or its image
// fails to load in the browser.
const PlaceholderImage = "placeholder.jpg"

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidProductID = errors.New("invalid product id")
)

type ProductID int64

// ParseProductID parses the id carried by a page query parameter.
func ParseProductID(s string) (ProductID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProductID, s)
	}
	return ProductID(id), nil
}

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

type Product struct {
	ID                 ProductID       `json:"id"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price" validate:"gte=0"`
	Images             []string        `json:"images"`
	Image              string          `json:"image,omitempty"`
	Description        string          `json:"description"`
	SKU                string          `json:"sku"`
	ReviewsStarAverage float64         `json:"reviews_star_average" validate:"gte=0,lte=5"`
	ReviewsCount       int             `json:"reviews_count" validate:"gte=0"`
	InStock            bool            `json:"inStock"`
}

// ImageURL resolves the display image: the first of Images, then the
// legacy Image field, then [PlaceholderImage].
func (p Product) ImageURL() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	if p.Image != "" {
		return p.Image
	}
	return PlaceholderImage
}

// Stars is the rounded review average clamped to 0..5.
func (p Product) Stars() int {
	s := int(math.Round(p.ReviewsStarAverage))
	return min(max(s, 0), 5)
}

// Catalog is a read-only product snapshot in document order.
type Catalog struct {
	products []Product
	index    map[ProductID]int
}

// NewCatalog builds a catalog, rejecting duplicate ids.
func NewCatalog(ps []Product) (Catalog, error) {
	c := Catalog{
		products: make([]Product, len(ps)),
		index:    make(map[ProductID]int, len(ps)),
	}
	for i, p := range ps {
		if _, ok := c.index[p.ID]; ok {
			return Catalog{}, fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID)
		}
		c.index[p.ID] = i
		c.products[i] = p
	}
	return c, nil
}

func (c Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

func (c Catalog) Len() int {
	return len(c.products)
}

func (c Catalog) Product(id ProductID) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}
