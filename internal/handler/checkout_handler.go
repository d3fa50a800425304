package handler

import (
	"errors"
	"net/http"

	"shoes-store/internal/auth"
	"shoes-store/internal/checkout"
	"shoes-store/internal/model"
	"shoes-store/internal/otp"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles pricing, payment intents and order submission.
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	logger       zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(orchestrator *checkout.Orchestrator, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		logger:       logger.With().Str("handler", "checkout").Logger(),
	}
}

// Summary handles GET /api/checkout/summary.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, model.CheckoutSummary{
		Cart:          s.Cart.View(),
		Pricing:       h.orchestrator.Summary(s.Cart),
		PhoneVerified: s.PhoneVerified(),
	})
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}

	if s.Cart.IsEmpty() {
		writeDomainError(w, model.ErrEmptyCart, "", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	creq := checkout.Request{
		Cart:          s.Cart,
		VerifiedPhone: s.VerifiedPhone(),
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
	}
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		creq.UserID = &userID
	}

	confirmation, err := h.orchestrator.Checkout(r.Context(), creq)
	if err != nil {
		if errors.Is(err, model.ErrPhoneNotVerified) {
			_ = s.Require(otp.ActionCheckout)
			writeGated(w, err, otp.ActionCheckout)
			return
		}
		writeDomainError(w, err, "Checkout failed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, confirmation)
}

// CreatePaymentIntent handles POST /api/create-payment-intent.
func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	intent, err := h.orchestrator.CreatePaymentIntent(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "Failed to create payment intent", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, intent)
}
