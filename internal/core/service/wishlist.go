package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const wishlistKey = "wishlist"

var _ port.WishlistStore = (*WishlistStore)(nil)

// A WishlistStore is the wishlist of one profile.
type WishlistStore struct {
	records port.RecordStorage
	profile string
	metrics port.Metrics
}

func NewWishlistStore(
	records port.RecordStorage, profile string, metrics port.Metrics,
) WishlistStore {
	return WishlistStore{records, profile, metrics}
}

// Toggle flips membership of id and reports the membership after the call.
func (s WishlistStore) Toggle(ctx context.Context, id domain.ProductID) (bool, error) {
	const op = "WishlistStore.Toggle"

	w, err := s.read(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	w, added := w.Toggle(id)
	if err := s.write(ctx, w); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.WishlistToggled(added)
	return added, nil
}

func (s WishlistStore) Contains(ctx context.Context, id domain.ProductID) (bool, error) {
	const op = "WishlistStore.Contains"

	w, err := s.read(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return w.Contains(id), nil
}

func (s WishlistStore) Remove(ctx context.Context, id domain.ProductID) error {
	const op = "WishlistStore.Remove"

	w, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !w.Contains(id) {
		return nil
	}

	if err := s.write(ctx, w.Remove(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s WishlistStore) IDs(ctx context.Context) (domain.Wishlist, error) {
	const op = "WishlistStore.IDs"

	w, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func (s WishlistStore) read(ctx context.Context) (domain.Wishlist, error) {
	const op = "WishlistStore.read"
	log := slog.With("op", op, "profile", s.profile)

	data, err := s.records.Get(ctx, s.profile, wishlistKey)
	if err != nil {
		if errors.Is(err, port.ErrRecordNotFound) {
			return domain.Wishlist{}, nil
		}
		return nil, err
	}

	var ids []domain.ProductID
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Warn("corrupt wishlist record, treating as empty", "err", err)
		return domain.Wishlist{}, nil
	}
	return domain.NormalizeWishlist(ids), nil
}

func (s WishlistStore) write(ctx context.Context, w domain.Wishlist) error {
	if w == nil {
		w = domain.Wishlist{}
	}
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return s.records.Set(ctx, s.profile, wishlistKey, data)
}
