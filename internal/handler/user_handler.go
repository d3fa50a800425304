package handler

import (
	"net/http"

	"shoes-store/internal/model"
	"shoes-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserHandler handles account requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// Signup handles POST /api/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "Failed to create account", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "Failed to sign in", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/user/{userId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to fetch user", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/user/{userId}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, err, "Failed to update user", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// AddAddress handles POST /api/user/{userId}/addresses.
func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}

	var req model.Address
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	user, err := h.service.AddAddress(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, err, "Failed to add address", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// AddToWishlist handles PUT /api/user/{userId}/wishlist/{productId}.
func (h *UserHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}
	productID, ok := pathInt(w, r, "productId", "product ID", h.logger)
	if !ok {
		return
	}

	user, err := h.service.AddToWishlist(r.Context(), id, productID)
	if err != nil {
		writeDomainError(w, err, "Failed to update wishlist", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// RemoveFromWishlist handles DELETE /api/user/{userId}/wishlist/{productId}.
func (h *UserHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}
	productID, ok := pathInt(w, r, "productId", "product ID", h.logger)
	if !ok {
		return
	}

	user, err := h.service.RemoveFromWishlist(r.Context(), id, productID)
	if err != nil {
		writeDomainError(w, err, "Failed to update wishlist", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdatePhone handles POST /api/update-phone. The caller must be signed in
// as userId and must have verified phoneNumber in the current session.
func (h *UserHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}
	caller, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.UpdatePhoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	id, err := uuid.Parse(req.UserID)
	if err != nil {
		writeDomainError(w, model.NewValidationError("User ID and phone number are required"), "", h.logger)
		return
	}
	if id != caller {
		writeDomainError(w, model.ErrForbidden, "", h.logger)
		return
	}

	if err := h.service.UpdatePhone(r.Context(), id, req.PhoneNumber, s.VerifiedPhone()); err != nil {
		writeDomainError(w, err, "Failed to update phone number", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Phone number updated successfully"})
}

// self returns the path user ID when it matches the authenticated caller.
func (h *UserHandler) self(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	caller, ok := currentUser(w, r, h.logger)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return uuid.Nil, false
	}
	if id != caller {
		writeDomainError(w, model.ErrForbidden, "", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
