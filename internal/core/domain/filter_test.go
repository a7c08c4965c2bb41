package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/domain"
)

func filterCatalog(t *testing.T) domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog([]domain.Product{
		{ID: 1, Name: "Desk Lamp", Brand: "Acme", Category: "Lighting", Price: decimal.NewFromInt(300)},
		{ID: 2, Name: "Sofa", Brand: "Zen", Category: "Furniture", Price: decimal.NewFromInt(8000)},
		{ID: 3, Name: "Floor Lamp", Brand: "Acme", Category: "Lighting", Price: decimal.NewFromInt(700)},
		{ID: 4, Name: "Mug", Brand: "acme", Category: "Kitchen", Price: decimal.NewFromInt(20), Description: "Holds tea"},
	})
	require.NoError(t, err)
	return c
}

func ids(ps []domain.Product) []domain.ProductID {
	out := make([]domain.ProductID, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestParsePriceBand(t *testing.T) {
	cases := []struct {
		in       string
		min, max string
	}{
		{"0-500", "0", "500"},
		{"5000-0", "5000", "0"},
		{"5000-", "5000", "0"},
		{"100.5-200", "100.5", "200"},
	}
	for _, tc := range cases {
		b, err := domain.ParsePriceBand(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.min, b.Min.String(), tc.in)
		assert.Equal(t, tc.max, b.Max.String(), tc.in)
	}

	for _, in := range []string{"cheap", "a-100", "0-b"} {
		_, err := domain.ParsePriceBand(in)
		assert.ErrorIs(t, err, domain.ErrInvalidPriceBand, in)
	}
}

func TestFilter(t *testing.T) {
	c := filterCatalog(t)
	band := func(s string) *domain.PriceBand {
		b, err := domain.ParsePriceBand(s)
		require.NoError(t, err)
		return &b
	}

	cases := []struct {
		name   string
		filter domain.Filter
		want   []domain.ProductID
	}{
		{"NoPredicates", domain.Filter{}, []domain.ProductID{1, 2, 3, 4}},
		{"BrandIsCaseSensitive", domain.Filter{Brand: "Acme"}, []domain.ProductID{1, 3}},
		{"Category", domain.Filter{Category: "Lighting"}, []domain.ProductID{1, 3}},
		{"BrandAndBand", domain.Filter{Brand: "Acme", Price: band("0-500")}, []domain.ProductID{1}},
		{"OpenBand", domain.Filter{Price: band("5000-0")}, []domain.ProductID{2}},
		{"InclusiveBounds", domain.Filter{Price: band("300-700")}, []domain.ProductID{1, 3}},
		{"TextAnyField", domain.Filter{Text: "  LAMP "}, []domain.ProductID{1, 3}},
		{"TextBrandFolded", domain.Filter{Text: "acme"}, []domain.ProductID{1, 3, 4}},
		{"TextDescription", domain.Filter{Text: "tea"}, []domain.ProductID{4}},
		{"NoMatch", domain.Filter{Brand: "Zen", Category: "Kitchen"}, []domain.ProductID{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Apply(c)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}
