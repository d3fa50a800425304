package handler

import (
	"context"
	"errors"
	"net/http"

	"shoes-store/internal/auth"
	"shoes-store/internal/model"
	"shoes-store/internal/otp"
	"shoes-store/internal/service"

	"github.com/rs/zerolog"
)

// OTPHandler handles phone verification requests.
type OTPHandler struct {
	flow   *otp.Flow
	users  service.UserService
	logger zerolog.Logger
}

// NewOTPHandler creates a new OTP handler. users may be nil, in which case
// verified phones are never linked to accounts.
func NewOTPHandler(flow *otp.Flow, users service.UserService, logger zerolog.Logger) *OTPHandler {
	return &OTPHandler{
		flow:   flow,
		users:  users,
		logger: logger.With().Str("handler", "otp").Logger(),
	}
}

// Send handles POST /api/send-otp.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, h.flow.Issue)
}

// Resend handles POST /api/resend-otp.
func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, h.flow.Resend)
}

func (h *OTPHandler) issue(w http.ResponseWriter, r *http.Request, send func(ctx context.Context, phone string) error) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}

	var req model.SendOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	phone := otp.NormalisePhone(req.PhoneNumber)
	if err := send(r.Context(), phone); err != nil {
		writeDomainError(w, err, "Failed to send OTP", h.logger)
		return
	}

	s.CodeSent(phone)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "OTP sent successfully"})
}

// Verify handles POST /api/verify-otp. With a bearer token the verified
// phone is also linked to the caller's account, best effort.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}

	var req model.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err, "", h.logger)
		return
	}

	phone := otp.NormalisePhone(req.PhoneNumber)
	if err := h.flow.Verify(r.Context(), phone, req.OTP); err != nil {
		writeDomainError(w, err, "Failed to verify OTP", h.logger)
		return
	}

	pending := s.MarkVerified(phone)

	if userID, ok := auth.UserIDFromContext(r.Context()); ok && h.users != nil {
		if err := h.users.UpdatePhone(r.Context(), userID, phone, phone); err != nil {
			if !errors.Is(err, model.ErrPhoneTaken) && !errors.Is(err, model.ErrUserNotFound) {
				h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to link verified phone")
			} else {
				h.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("verified phone not linked")
			}
		}
	}

	writeJSON(w, http.StatusOK, model.VerifyOTPResponse{
		Message:       "Phone number verified successfully",
		PendingAction: string(pending),
	})
}

// Cancel handles POST /api/cancel-verification: the verification in
// progress is abandoned together with its pending gated action.
func (h *OTPHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.logger)
	if !ok {
		return
	}
	s.AbortVerification()
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Verification cancelled"})
}
