package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/domain"
)

func TestSummarize(t *testing.T) {
	c, err := domain.NewCatalog([]domain.Product{
		{ID: 1, Price: decimal.NewFromInt(1000)},
		{ID: 2, Price: decimal.RequireFromString("0.35")},
	})
	require.NoError(t, err)

	t.Run("Regular", func(t *testing.T) {
		resolved, missing := domain.ResolveCart(c, domain.Cart{{ProductID: 1, Qty: 2}})
		assert.Empty(t, missing)

		s := domain.Summarize(resolved)
		assert.Equal(t, "2000.00", domain.FormatMoney(s.Subtotal))
		assert.Equal(t, "200.00", domain.FormatMoney(s.Shipping))
		assert.Equal(t, "200.00", domain.FormatMoney(s.Tax))
		assert.Equal(t, "2400.00", domain.FormatMoney(s.Total))
	})

	t.Run("Empty", func(t *testing.T) {
		s := domain.Summarize(nil)
		for _, v := range []decimal.Decimal{s.Subtotal, s.Shipping, s.Tax, s.Total} {
			assert.True(t, v.IsZero())
		}
	})

	t.Run("ExactUntilPresentation", func(t *testing.T) {
		resolved, _ := domain.ResolveCart(c, domain.Cart{{ProductID: 2, Qty: 3}})
		s := domain.Summarize(resolved)
		assert.Equal(t, "1.05", s.Subtotal.String())
		assert.Equal(t, "0.105", s.Tax.String())
		assert.Equal(t, "0.11", domain.FormatMoney(s.Tax))
		assert.Equal(t, "201.155", s.Total.String())
	})

	t.Run("MissingSkipped", func(t *testing.T) {
		resolved, missing := domain.ResolveCart(c, domain.Cart{
			{ProductID: 9, Qty: 1}, {ProductID: 1, Qty: 1},
		})
		assert.Equal(t, []domain.ProductID{9}, missing)
		require.Len(t, resolved, 1)
		assert.Equal(t, "1000.00", domain.FormatMoney(domain.Summarize(resolved).Subtotal))
	})
}
