package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPriceBand = errors.New("invalid price band")

// PriceBand is an inclusive price range. A zero Max means no upper bound.
type PriceBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// ParsePriceBand parses a "min-max" selection such as "0-500" or "5000-".
// An empty max, or a max of zero, leaves the band open above.
func ParsePriceBand(s string) (PriceBand, error) {
	minS, maxS, _ := strings.Cut(strings.TrimSpace(s), "-")

	var (
		b   PriceBand
		err error
	)
	if minS = strings.TrimSpace(minS); minS != "" {
		b.Min, err = decimal.NewFromString(minS)
		if err != nil {
			return PriceBand{}, fmt.Errorf("%w: %q", ErrInvalidPriceBand, s)
		}
	}
	if maxS = strings.TrimSpace(maxS); maxS != "" {
		b.Max, err = decimal.NewFromString(maxS)
		if err != nil {
			return PriceBand{}, fmt.Errorf("%w: %q", ErrInvalidPriceBand, s)
		}
	}
	return b, nil
}

func (b PriceBand) Contains(price decimal.Decimal) bool {
	if price.LessThan(b.Min) {
		return false
	}
	if b.Max.IsZero() {
		return true
	}
	return price.LessThanOrEqual(b.Max)
}

// Filter is a conjunction of optional predicates. Zero-valued fields do not
// filter.
type Filter struct {
	Brand    string
	Category string
	Price    *PriceBand
	Text     string
}

func (f Filter) Match(p Product) bool {
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Price != nil && !f.Price.Contains(p.Price) {
		return false
	}
	if term := normalizeTerm(f.Text); term != "" && !matchText(p, term) {
		return false
	}
	return true
}

// Apply returns the matching products in catalog order. The result is
// never nil.
func (f Filter) Apply(c Catalog) []Product {
	out := make([]Product, 0, c.Len())
	for _, p := range c.products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchText(p Product, term string) bool {
	for _, field := range [...]string{p.Name, p.Brand, p.Category, p.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// NormalizeSearchTerm is the term as the search page matches it.
func NormalizeSearchTerm(s string) string {
	return normalizeTerm(s)
}
