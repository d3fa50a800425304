package repository

import (
	"context"
	"errors"
	"fmt"

	"shoes-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Default names PostgreSQL gives the UNIQUE columns of users.
const (
	usersEmailKey = "users_email_key"
	usersPhoneKey = "users_phone_number_key"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, phone_number, phone_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.PhoneNumber,
		user.PhoneVerified,
		user.CreatedAt,
	)
	if err != nil {
		switch uniqueConstraint(err) {
		case usersEmailKey:
			return model.ErrEmailTaken
		case usersPhoneKey:
			return model.ErrPhoneTaken
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("user_id", user.ID.String()).Msg("user created successfully")
	return nil
}

// GetByID retrieves a user with addresses, wishlist and order references.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := r.getOne(ctx, "id = $1", id)
	if err != nil || user == nil {
		return user, err
	}

	if err := r.loadRelations(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email for sign-in.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	query := `
		SELECT id, email, display_name, password_hash, phone_number, phone_verified, created_at
		FROM users
		WHERE ` + where

	var user model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.PhoneNumber,
		&user.PhoneVerified,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// loadRelations fills addresses, wishlist and order references.
func (r *userRepository) loadRelations(ctx context.Context, user *model.User) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, address, city, state, zip_code
		FROM user_addresses
		WHERE user_id = $1
		ORDER BY created_at, id
	`, user.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to query addresses")
		return fmt.Errorf("failed to query addresses: %w", err)
	}
	user.Addresses, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Address, error) {
		var a model.Address
		err := row.Scan(&a.ID, &a.Address, &a.City, &a.State, &a.ZipCode)
		return a, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan addresses: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT product_id FROM user_wishlist WHERE user_id = $1 ORDER BY created_at, product_id
	`, user.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to query wishlist")
		return fmt.Errorf("failed to query wishlist: %w", err)
	}
	user.Wishlist, err = pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("failed to scan wishlist: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id::text FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, user.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to query order references")
		return fmt.Errorf("failed to query order references: %w", err)
	}
	user.Orders, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to scan order references: %w", err)
	}

	return nil
}

// UpdateDisplayName changes the display name of a user.
func (r *userRepository) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET display_name = $2 WHERE id = $1`, id, displayName)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update display name")
		return fmt.Errorf("failed to update display name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// SetPhone links a verified phone number to a user.
func (r *userRepository) SetPhone(ctx context.Context, id uuid.UUID, phone string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET phone_number = $2, phone_verified = TRUE WHERE id = $1
	`, id, phone)
	if err != nil {
		if uniqueConstraint(err) == usersPhoneKey {
			return model.ErrPhoneTaken
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to set phone number")
		return fmt.Errorf("failed to set phone number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	r.logger.Debug().Str("user_id", id.String()).Msg("phone number linked")
	return nil
}

// AddAddress appends a saved address.
func (r *userRepository) AddAddress(ctx context.Context, userID uuid.UUID, address *model.Address) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_addresses (id, user_id, address, city, state, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, address.ID, userID, address.Address, address.City, address.State, address.ZipCode)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to add address")
		return fmt.Errorf("failed to add address: %w", err)
	}
	return nil
}

// AddToWishlist saves a product; adding it twice is a no-op.
func (r *userRepository) AddToWishlist(ctx context.Context, userID uuid.UUID, productID int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_wishlist (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Int("product_id", productID).Msg("failed to add wishlist item")
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// RemoveFromWishlist drops a product; removing a missing product is a no-op.
func (r *userRepository) RemoveFromWishlist(ctx context.Context, userID uuid.UUID, productID int) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_wishlist WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Int("product_id", productID).Msg("failed to remove wishlist item")
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}
