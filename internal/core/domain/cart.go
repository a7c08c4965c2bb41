package domain

import (
	"errors"
	"math"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// A CartLine is the intent to purchase Qty items of a product.
//
// Qty is always at least 1: a line whose quantity drops to zero is removed.
type CartLine struct {
	ProductID ProductID `json:"id"`
	Qty       int       `json:"qty"`
}

// Cart is the ordered set of lines, at most one per product.
type Cart []CartLine

// NormalizeCart drops lines with non-positive quantity and merges
// duplicate product lines, keeping first-seen order.
func NormalizeCart(lines []CartLine) Cart {
	c := make(Cart, 0, len(lines))
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		if i := c.index(l.ProductID); i >= 0 {
			c[i].Qty = saturatingAdd(c[i].Qty, l.Qty)
			continue
		}
		c = append(c, l)
	}
	return c
}

func (c Cart) index(id ProductID) int {
	for i := range c {
		if c[i].ProductID == id {
			return i
		}
	}
	return -1
}

func (c Cart) Line(id ProductID) (CartLine, bool) {
	i := c.index(id)
	if i < 0 {
		return CartLine{}, false
	}
	return c[i], true
}

// Add returns the cart with qty added to the product line, creating it
// if absent. A qty below 1, or one the line cannot hold, leaves the cart
// unchanged and reports [ErrInvalidQuantity].
func (c Cart) Add(id ProductID, qty int) (Cart, error) {
	if qty < 1 {
		return c, ErrInvalidQuantity
	}
	next := append(Cart(nil), c...)
	if i := next.index(id); i >= 0 {
		sum, ok := checkedAdd(next[i].Qty, qty)
		if !ok {
			return c, ErrInvalidQuantity
		}
		next[i].Qty = sum
		return next, nil
	}
	return append(next, CartLine{ProductID: id, Qty: qty}), nil
}

// ChangeQty applies delta to an existing line. The line is removed when
// the result is not positive. A missing line is left untouched and changed
// is false. A delta the line cannot hold reports [ErrInvalidQuantity].
func (c Cart) ChangeQty(id ProductID, delta int) (next Cart, changed bool, err error) {
	i := c.index(id)
	if i < 0 {
		return c, false, nil
	}
	qty, ok := checkedAdd(c[i].Qty, delta)
	if !ok {
		return c, false, ErrInvalidQuantity
	}
	if qty <= 0 {
		return c.Remove(id), true, nil
	}
	next = append(Cart(nil), c...)
	next[i].Qty = qty
	return next, true, nil
}

func (c Cart) Remove(id ProductID) Cart {
	next := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID != id {
			next = append(next, l)
		}
	}
	return next
}

// TotalQuantity is the badge count, capped at math.MaxInt.
func (c Cart) TotalQuantity() int {
	var n int
	for _, l := range c {
		n = saturatingAdd(n, l.Qty)
	}
	return n
}

func checkedAdd(a, b int) (int, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// saturatingAdd adds non-negative quantities without wrapping.
func saturatingAdd(a, b int) int {
	sum, ok := checkedAdd(a, b)
	if !ok {
		return math.MaxInt
	}
	return sum
}
