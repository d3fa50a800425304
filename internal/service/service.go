package service

import (
	"context"

	"shoes-store/internal/model"

	"github.com/google/uuid"
)

// ProductLookup resolves catalogue products by ID.
type ProductLookup interface {
	Get(id int) (*model.Product, error)
}

// UserService defines operations for storefront accounts.
type UserService interface {
	// Signup creates an account and returns a bearer token for it.
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)

	// Login checks credentials and returns a fresh bearer token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// GetByID returns the full user document.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateProfile changes mutable profile fields.
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)

	// AddAddress appends a saved delivery address.
	AddAddress(ctx context.Context, id uuid.UUID, req *model.Address) (*model.User, error)

	// AddToWishlist saves a catalogue product to the wishlist.
	AddToWishlist(ctx context.Context, id uuid.UUID, productID int) (*model.User, error)

	// RemoveFromWishlist drops a product from the wishlist.
	RemoveFromWishlist(ctx context.Context, id uuid.UUID, productID int) (*model.User, error)

	// UpdatePhone links phone to the account. verifiedPhone is the number the
	// caller proved ownership of through OTP; any other number is refused.
	UpdatePhone(ctx context.Context, id uuid.UUID, phone, verifiedPhone string) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder persists a paid order and its items in one transaction.
	CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error)

	// GetByID retrieves an order owned by userID.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.OrderResponse, error)

	// ListByUser retrieves the orders placed by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderResponse, error)
}
