package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a storefront account.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PasswordHash  string    `json:"-"`
	PhoneNumber   *string   `json:"phoneNumber,omitempty"`
	PhoneVerified bool      `json:"phoneVerified"`
	Addresses     []Address `json:"addresses"`
	Wishlist      []int     `json:"wishlist"`
	Orders        []string  `json:"orders"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Address is a saved delivery address.
type Address struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	ZipCode string    `json:"zipCode"`
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a bearer token and the signed-in user.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest updates mutable profile fields.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

// UpdatePhoneRequest links a verified phone number to an account.
type UpdatePhoneRequest struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
}
