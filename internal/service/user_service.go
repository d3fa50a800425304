package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"shoes-store/internal/auth"
	"shoes-store/internal/model"
	"shoes-store/internal/otp"
	"shoes-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 6

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	products ProductLookup
	tokens   *auth.Tokens
	hasher   *auth.Hasher
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	products ProductLookup,
	tokens *auth.Tokens,
	hasher *auth.Hasher,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		products: products,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// Signup creates an account and returns a bearer token for it.
func (s *userService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, model.NewValidationError("Email and password are required")
	}

	email, err := normaliseEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Addresses:    []model.Address{},
		Wishlist:     []int{},
		Orders:       []string{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("account created")
	return s.authResponse(user)
}

// Login checks credentials and returns a fresh bearer token.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, model.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	if user == nil || !s.hasher.Check(user.PasswordHash, req.Password) {
		s.logger.Debug().Msg("rejected sign-in attempt")
		return nil, model.ErrInvalidCredentials
	}

	full, err := s.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.authResponse(full)
}

// GetByID returns the full user document.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes mutable profile fields.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	if req == nil || strings.TrimSpace(req.DisplayName) == "" {
		return nil, model.NewValidationError("Display name is required")
	}

	if err := s.userRepo.UpdateDisplayName(ctx, id, strings.TrimSpace(req.DisplayName)); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AddAddress appends a saved delivery address.
func (s *userService) AddAddress(ctx context.Context, id uuid.UUID, req *model.Address) (*model.User, error) {
	if req == nil {
		return nil, model.NewValidationError("Address is required")
	}

	addr := model.Address{
		ID:      uuid.New(),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		ZipCode: strings.TrimSpace(req.ZipCode),
	}
	for _, f := range []struct{ name, value string }{
		{"address", addr.Address},
		{"city", addr.City},
		{"state", addr.State},
		{"zipCode", addr.ZipCode},
	} {
		if f.value == "" {
			return nil, model.NewValidationError("Address " + f.name + " is required")
		}
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddAddress(ctx, id, &addr); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AddToWishlist saves a catalogue product to the wishlist.
func (s *userService) AddToWishlist(ctx context.Context, id uuid.UUID, productID int) (*model.User, error) {
	if _, err := s.products.Get(productID); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddToWishlist(ctx, id, productID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// RemoveFromWishlist drops a product from the wishlist.
func (s *userService) RemoveFromWishlist(ctx context.Context, id uuid.UUID, productID int) (*model.User, error) {
	if err := s.userRepo.RemoveFromWishlist(ctx, id, productID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdatePhone links phone to the account once its ownership is proven.
func (s *userService) UpdatePhone(ctx context.Context, id uuid.UUID, phone, verifiedPhone string) error {
	phone = otp.NormalisePhone(phone)
	if err := otp.ValidatePhone(phone); err != nil {
		return err
	}
	if verifiedPhone == "" || otp.NormalisePhone(verifiedPhone) != phone {
		s.logger.Warn().Str("user_id", id.String()).Msg("phone update without matching verification")
		return model.ErrForbidden.WithMessage("Phone number has not been verified in this session")
	}

	if err := s.userRepo.SetPhone(ctx, id, phone); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id.String()).Msg("phone number updated")
	return nil
}

func (s *userService) authResponse(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func normaliseEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", model.NewValidationError("Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", model.NewValidationError("Email is invalid")
	}
	return email, nil
}
