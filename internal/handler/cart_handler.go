package handler

import (
	"net/http"
	"strconv"

	"shoes-store/internal/cart"
	"shoes-store/internal/model"
	"shoes-store/internal/otp"
	"shoes-store/internal/service"
	"shoes-store/internal/session"

	"github.com/rs/zerolog"
)

// CartHandler handles the session cart.
type CartHandler struct {
	products service.ProductLookup
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(products service.ProductLookup, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.View())
}

// AddItem handles POST /api/cart/items. It is gated on phone verification.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}
	if !h.add(w, r, s, otp.ActionAddToCart) {
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.View())
}

// BuyNow handles POST /api/buy-now: the item is added and the client is sent
// straight to checkout.
func (h *CartHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}
	if !h.add(w, r, s, otp.ActionBuyNow) {
		return
	}
	writeJSON(w, http.StatusOK, model.BuyNowResponse{Cart: s.Cart.View(), Redirect: "/checkout"})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, s *session.Session, action otp.Action) bool {
	var req model.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return false
	}

	if err := s.Require(action); err != nil {
		h.logger.Debug().Str("session_id", s.ID).Str("action", string(action)).Msg("gated action needs verification")
		writeGated(w, err, action)
		return false
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		writeDomainError(w, err, "", h.logger)
		return false
	}

	product, err := h.products.Get(req.ProductID)
	if err != nil {
		writeDomainError(w, err, "failed to add item", h.logger)
		return false
	}
	if !product.HasSize(req.Size) {
		writeDomainError(w, model.ErrInvalidSize, "", h.logger)
		return false
	}

	if err := cart.ValidateQuantity(s.Cart.Quantity(product.ID, req.Size) + req.Quantity); err != nil {
		writeDomainError(w, err, "", h.logger)
		return false
	}

	s.Cart.AddItem(*product, req.Size, req.Quantity)
	h.logger.Debug().
		Str("session_id", s.ID).
		Int("product_id", product.ID).
		Int("size", req.Size).
		Int("quantity", req.Quantity).
		Msg("item added to cart")
	return true
}

// UpdateItem handles PATCH /api/cart/items.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}

	var req model.UpdateCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	if !s.Cart.UpdateQuantity(req.ProductID, req.Size, req.Quantity) {
		writeDomainError(w, model.ErrCartLineNotFound, "", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, s.Cart.View())
}

// RemoveItem handles DELETE /api/cart/items?productId=&size=.
// Removing a line that is not in the cart is not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(r.URL.Query().Get("productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid productId parameter", h.logger)
		return
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size parameter", h.logger)
		return
	}

	s.Cart.RemoveItem(productID, size)
	writeJSON(w, http.StatusOK, s.Cart.View())
}
