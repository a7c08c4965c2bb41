package domain

// Wishlist is an ordered set of product ids.
type Wishlist []ProductID

// NormalizeWishlist collapses duplicate ids, keeping first-seen order.
func NormalizeWishlist(ids []ProductID) Wishlist {
	w := make(Wishlist, 0, len(ids))
	for _, id := range ids {
		if !w.Contains(id) {
			w = append(w, id)
		}
	}
	return w
}

func (w Wishlist) Contains(id ProductID) bool {
	for _, v := range w {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id when present and appends it otherwise. The returned
// bool is the membership after the call.
func (w Wishlist) Toggle(id ProductID) (Wishlist, bool) {
	if w.Contains(id) {
		return w.Remove(id), false
	}
	return append(append(Wishlist(nil), w...), id), true
}

func (w Wishlist) Remove(id ProductID) Wishlist {
	next := make(Wishlist, 0, len(w))
	for _, v := range w {
		if v != id {
			next = append(next, v)
		}
	}
	return next
}
