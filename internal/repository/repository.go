package repository

import (
	"context"

	"shoes-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields model.ErrEmailTaken.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user with addresses, wishlist and order references.
	// Returns nil when no user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email for sign-in. Returns nil when no user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateDisplayName changes the display name of a user.
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error

	// SetPhone links a verified phone number to a user.
	// A number owned by another account yields model.ErrPhoneTaken.
	SetPhone(ctx context.Context, id uuid.UUID, phone string) error

	// AddAddress appends a saved address.
	AddAddress(ctx context.Context, userID uuid.UUID, address *model.Address) error

	// AddToWishlist saves a product; adding it twice is a no-op.
	AddToWishlist(ctx context.Context, userID uuid.UUID, productID int) error

	// RemoveFromWishlist drops a product; removing a missing product is a no-op.
	RemoveFromWishlist(ctx context.Context, userID uuid.UUID, productID int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves a user's orders, newest first, with their items.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderResponse, error)
}
