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

const cartKey = "cart"

var _ port.CartStore = (*CartStore)(nil)

// A CartStore is the cart of one profile.
//
// Every call reads the persisted record and, when it mutates, rewrites it
// in full before returning.
type CartStore struct {
	records port.RecordStorage
	profile string
	metrics port.Metrics
}

func NewCartStore(
	records port.RecordStorage, profile string, metrics port.Metrics,
) CartStore {
	return CartStore{records, profile, metrics}
}

func (s CartStore) Add(ctx context.Context, id domain.ProductID, qty int) error {
	const op = "CartStore.Add"

	cart, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cart, err = cart.Add(id, qty)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.write(ctx, cart); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartMutated("add")
	return nil
}

func (s CartStore) ChangeQty(ctx context.Context, id domain.ProductID, delta int) error {
	const op = "CartStore.ChangeQty"

	cart, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cart, changed, err := cart.ChangeQty(id, delta)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		return nil
	}

	if err := s.write(ctx, cart); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartMutated("change_qty")
	return nil
}

func (s CartStore) Remove(ctx context.Context, id domain.ProductID) error {
	const op = "CartStore.Remove"

	cart, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.write(ctx, cart.Remove(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartMutated("remove")
	return nil
}

func (s CartStore) Clear(ctx context.Context) error {
	const op = "CartStore.Clear"

	if err := s.records.Delete(ctx, s.profile, cartKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartMutated("clear")
	return nil
}

func (s CartStore) TotalQuantity(ctx context.Context) (int, error) {
	const op = "CartStore.TotalQuantity"

	cart, err := s.read(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return cart.TotalQuantity(), nil
}

func (s CartStore) Lines(ctx context.Context) (domain.Cart, error) {
	const op = "CartStore.Lines"

	cart, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

// read treats an absent or corrupt record as an empty cart.
func (s CartStore) read(ctx context.Context) (domain.Cart, error) {
	const op = "CartStore.read"
	log := slog.With("op", op, "profile", s.profile)

	data, err := s.records.Get(ctx, s.profile, cartKey)
	if err != nil {
		if errors.Is(err, port.ErrRecordNotFound) {
			return domain.Cart{}, nil
		}
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Warn("corrupt cart record, treating as empty", "err", err)
		return domain.Cart{}, nil
	}
	return domain.NormalizeCart(lines), nil
}

func (s CartStore) write(ctx context.Context, cart domain.Cart) error {
	if cart == nil {
		cart = domain.Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	slog.Debug("cart written", "profile", s.profile, "lines", len(cart))
	return s.records.Set(ctx, s.profile, cartKey, data)
}
