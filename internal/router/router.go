package router

import (
	"net/http"

	"shoes-store/internal/auth"
	"shoes-store/internal/handler"
	"shoes-store/internal/middleware"
	"shoes-store/internal/session"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	OTP      *handler.OTPHandler
	Checkout *handler.CheckoutHandler
	User     *handler.UserHandler
	Order    *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	sessions *session.Registry,
	tokens *auth.Tokens,
	allowedOrigin string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no session, no authentication)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/categories", h.Product.Categories)
	mux.HandleFunc("GET /api/brands", h.Product.Brands)

	// Cart
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PATCH /api/cart/items", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items", h.Cart.RemoveItem)
	mux.HandleFunc("POST /api/buy-now", h.Cart.BuyNow)

	// Phone verification
	mux.HandleFunc("POST /api/send-otp", h.OTP.Send)
	mux.HandleFunc("POST /api/resend-otp", h.OTP.Resend)
	mux.HandleFunc("POST /api/verify-otp", h.OTP.Verify)
	mux.HandleFunc("POST /api/cancel-verification", h.OTP.Cancel)

	// Checkout and payment
	mux.HandleFunc("GET /api/checkout/summary", h.Checkout.Summary)
	mux.HandleFunc("POST /api/checkout", h.Checkout.Checkout)
	mux.HandleFunc("POST /api/create-payment-intent", h.Checkout.CreatePaymentIntent)

	// Accounts
	mux.HandleFunc("POST /api/signup", h.User.Signup)
	mux.HandleFunc("POST /api/login", h.User.Login)
	mux.HandleFunc("GET /api/user/{userId}", h.User.Get)
	mux.Handle("PUT /api/user/{userId}", middleware.RequireAuth(http.HandlerFunc(h.User.Update)))
	mux.Handle("POST /api/user/{userId}/addresses", middleware.RequireAuth(http.HandlerFunc(h.User.AddAddress)))
	mux.Handle("PUT /api/user/{userId}/wishlist/{productId}", middleware.RequireAuth(http.HandlerFunc(h.User.AddToWishlist)))
	mux.Handle("DELETE /api/user/{userId}/wishlist/{productId}", middleware.RequireAuth(http.HandlerFunc(h.User.RemoveFromWishlist)))
	mux.Handle("POST /api/update-phone", middleware.RequireAuth(http.HandlerFunc(h.User.UpdatePhone)))

	// Order history
	mux.Handle("GET /api/orders", middleware.RequireAuth(http.HandlerFunc(h.Order.List)))
	mux.Handle("GET /api/orders/{id}", middleware.RequireAuth(http.HandlerFunc(h.Order.GetByID)))

	// Apply middleware in order: Recovery -> Logging -> CORS -> Session -> Authenticate
	var handler http.Handler = mux
	handler = middleware.Authenticate(tokens, logger)(handler)
	handler = middleware.Session(sessions, logger)(handler)
	handler = middleware.CORS(allowedOrigin)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
