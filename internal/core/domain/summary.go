package domain

import "github.com/shopspring/decimal"

var (
	// ShippingFee is the flat fee charged on any non-empty order.
	ShippingFee = decimal.NewFromInt(200)
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.10")
)

// Summary holds exact order amounts. Rounding happens at presentation.
type Summary struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ResolvedLine is a cart line joined with its catalog product.
type ResolvedLine struct {
	Product Product
	Qty     int
}

func (l ResolvedLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// ResolveCart joins the cart with the catalog. Lines whose product is not
// in the catalog are returned as missing and left out of resolved.
func ResolveCart(c Catalog, cart Cart) (resolved []ResolvedLine, missing []ProductID) {
	for _, l := range cart {
		p, ok := c.Product(l.ProductID)
		if !ok {
			missing = append(missing, l.ProductID)
			continue
		}
		resolved = append(resolved, ResolvedLine{Product: p, Qty: l.Qty})
	}
	return resolved, missing
}

// Summarize computes the order summary of resolved lines.
func Summarize(lines []ResolvedLine) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = ShippingFee
	}
	tax := subtotal.Mul(TaxRate)

	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
