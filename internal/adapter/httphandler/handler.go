package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

// GET    v1/products?brand=&category=&price=min-max (200, 400, 503)
// GET    v1/search?q=term (200, 503)
// GET    v1/products/{id} (200, 404, 503)
// GET    v1/cart (200, 503)
// POST   v1/cart/items JSON {"product_id", "qty"} (200, 400, 404, 409, 503)
// PATCH  v1/cart/items/{id} JSON {"delta"} (200, 400, 503)
// DELETE v1/cart/items/{id} (200, 400, 503)
// DELETE v1/cart?confirm=true (200, 428, 503)
// POST   v1/checkout (409, 501)
// GET    v1/wishlist (200, 503)
// POST   v1/wishlist/{id}/toggle (200, 400, 404, 503)
// DELETE v1/wishlist/{id} (200, 400, 503)
// GET    v1/badge (200)

const (
	msgCatalogUnavailable = "Error loading product data. Please try again."
	msgProductNotFound    = "Product not found"
	msgOutOfStock         = "Product is out of stock"
	msgEmptyCart          = "Your cart is empty!"
	msgCheckoutSoon       = "Checkout functionality coming soon!"
	msgConfirmClear       = "Are you sure you want to clear your cart?"
	msgInternal           = "internal error"
)

type Storefront interface {
	Badge(ctx context.Context, profile string) (int, error)
	Dashboard(ctx context.Context, profile string, f domain.Filter) (service.ProductListing, error)
	Search(ctx context.Context, profile, term string) (service.SearchView, error)
	ProductDetail(ctx context.Context, profile string, id domain.ProductID) (service.ProductDetail, error)
	CartView(ctx context.Context, profile string) (service.CartView, error)
	AddToCart(ctx context.Context, profile string, id domain.ProductID, qty int) (int, error)
	ChangeQty(ctx context.Context, profile string, id domain.ProductID, delta int) (service.CartView, error)
	RemoveFromCart(ctx context.Context, profile string, id domain.ProductID) (service.CartView, error)
	ClearCart(ctx context.Context, profile string, confirmed bool) (service.CartView, error)
	Checkout(ctx context.Context, profile string) error
	WishlistView(ctx context.Context, profile string) (service.WishlistView, error)
	ToggleWishlist(ctx context.Context, profile string, id domain.ProductID) (bool, error)
	RemoveFromWishlist(ctx context.Context, profile string, id domain.ProductID) (service.WishlistView, error)
}

type StorefrontHandler struct {
	sf       Storefront
	validate *validator.Validate
}

func RegisterStorefront(mux *http.ServeMux, sf Storefront) {
	h := StorefrontHandler{
		sf:       sf,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/search", h.GetSearch)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostCartItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.PatchCartItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteCartItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
	mux.HandleFunc("GET /v1/wishlist", h.GetWishlist)
	mux.HandleFunc("POST /v1/wishlist/{id}/toggle", h.PostWishlistToggle)
	mux.HandleFunc("DELETE /v1/wishlist/{id}", h.DeleteWishlistItem)
	mux.HandleFunc("GET /v1/badge", h.GetBadge)
}

func (h StorefrontHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetProducts"
	log := slog.With("op", op)

	q := r.URL.Query()
	f := domain.Filter{
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
	}
	if price := q.Get("price"); price != "" {
		band, err := domain.ParsePriceBand(price)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			log.Warn("invalid price band", "price", price)
			return
		}
		f.Price = &band
	}

	v, err := h.sf.Dashboard(r.Context(), ProfileFrom(r.Context()), f)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toProductList(v))
}

func (h StorefrontHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetSearch"
	log := slog.With("op", op)

	v, err := h.sf.Search(r.Context(), ProfileFrom(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toSearchResult(v))
}

func (h StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetProduct"
	log := slog.With("op", op)

	id, err := domain.ParseProductID(r.PathValue("id"))
	if err != nil {
		http.Error(w, msgProductNotFound, http.StatusNotFound)
		return
	}

	v, err := h.sf.ProductDetail(r.Context(), ProfileFrom(r.Context()), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toProductDetail(v))
}

func (h StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetCart"
	log := slog.With("op", op)

	v, err := h.sf.CartView(r.Context(), ProfileFrom(r.Context()))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toCart(v))
}

func (h StorefrontHandler) PostCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.PostCartItem"
	log := slog.With("op", op)

	var req AddCartItem
	if !h.decode(w, r, log, &req) {
		return
	}
	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}

	badge, err := h.sf.AddToCart(
		r.Context(), ProfileFrom(r.Context()), domain.ProductID(*req.ProductID), qty,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, Badge{badge})
}

func (h StorefrontHandler) PatchCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.PatchCartItem"
	log := slog.With("op", op)

	id, ok := pathProductID(w, r)
	if !ok {
		return
	}

	var req ChangeCartItem
	if !h.decode(w, r, log, &req) {
		return
	}

	v, err := h.sf.ChangeQty(r.Context(), ProfileFrom(r.Context()), id, req.Delta)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toCart(v))
}

func (h StorefrontHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.DeleteCartItem"
	log := slog.With("op", op)

	id, ok := pathProductID(w, r)
	if !ok {
		return
	}

	v, err := h.sf.RemoveFromCart(r.Context(), ProfileFrom(r.Context()), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toCart(v))
}

func (h StorefrontHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.DeleteCart"
	log := slog.With("op", op)

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	v, err := h.sf.ClearCart(r.Context(), ProfileFrom(r.Context()), confirmed)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toCart(v))
}

func (h StorefrontHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.PostCheckout"
	log := slog.With("op", op)

	writeError(w, log, h.sf.Checkout(r.Context(), ProfileFrom(r.Context())))
}

func (h StorefrontHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetWishlist"
	log := slog.With("op", op)

	v, err := h.sf.WishlistView(r.Context(), ProfileFrom(r.Context()))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toWishlist(v))
}

func (h StorefrontHandler) PostWishlistToggle(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.PostWishlistToggle"
	log := slog.With("op", op)

	id, ok := pathProductID(w, r)
	if !ok {
		return
	}

	added, err := h.sf.ToggleWishlist(r.Context(), ProfileFrom(r.Context()), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, WishlistToggle{int64(id), added})
}

func (h StorefrontHandler) DeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.DeleteWishlistItem"
	log := slog.With("op", op)

	id, ok := pathProductID(w, r)
	if !ok {
		return
	}

	v, err := h.sf.RemoveFromWishlist(r.Context(), ProfileFrom(r.Context()), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toWishlist(v))
}

func (h StorefrontHandler) GetBadge(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetBadge"
	log := slog.With("op", op)

	badge, err := h.sf.Badge(r.Context(), ProfileFrom(r.Context()))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, Badge{badge})
}

func (h StorefrontHandler) decode(
	w http.ResponseWriter, r *http.Request, log *slog.Logger, v any,
) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid request body", "err", err)
		return false
	}
	return true
}

func pathProductID(w http.ResponseWriter, r *http.Request) (domain.ProductID, bool) {
	id, err := domain.ParseProductID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrCatalogUnavailable):
		http.Error(w, msgCatalogUnavailable, http.StatusServiceUnavailable)
	case errors.Is(err, service.ErrProductNotFound):
		http.Error(w, msgProductNotFound, http.StatusNotFound)
	case errors.Is(err, service.ErrOutOfStock):
		http.Error(w, msgOutOfStock, http.StatusConflict)
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, msgEmptyCart, http.StatusConflict)
	case errors.Is(err, service.ErrCheckoutNotImplemented):
		http.Error(w, msgCheckoutSoon, http.StatusNotImplemented)
	case errors.Is(err, service.ErrConfirmationRequired):
		http.Error(w, msgConfirmClear, http.StatusPreconditionRequired)
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPriceBand):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, msgInternal, http.StatusInternalServerError)
		log.Error("request failed", "err", err)
		return
	}
	log.Debug("request rejected", "err", err)
}
