package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shoes-store/internal/auth"
	"shoes-store/internal/model"
	"shoes-store/internal/otp"
	"shoes-store/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation, model.KindInvalidOrExpiredCode:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindUnauthorised:
		return http.StatusUnauthorized
	case model.KindRateLimited:
		return http.StatusTooManyRequests
	case model.KindPaymentDeclined:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps err to a status and body. Errors that are not
// domain errors become a generic 500 with the cause logged only.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: fallback})
		return
	}

	status := statusFor(de.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", de.Code).Msg("upstream failure")
		writeJSON(w, status, model.ErrorResponse{Error: fallback})
		return
	}

	resp := model.ErrorResponse{Error: de.Message}
	if errors.Is(err, model.ErrEmptyCart) {
		resp.Redirect = "/cart"
	}
	logger.Debug().Str("code", de.Code).Int("status", status).Msg("request rejected")
	writeJSON(w, status, resp)
}

// writeGated answers a gated action attempted without a verified phone.
func writeGated(w http.ResponseWriter, err error, action otp.Action) {
	writeJSON(w, http.StatusForbidden, model.ErrorResponse{Error: err.Error(), Action: string(action)})
}

// decodeJSON decodes a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// currentSession returns the session attached by the session middleware.
func currentSession(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "session unavailable", logger)
		return nil, false
	}
	return s, true
}

// currentUser returns the authenticated user, answering 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeDomainError(w, model.ErrUnauthorised, "", logger)
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a UUID path value, answering 400 when malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name, label string, logger zerolog.Logger) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, label+" is required", logger)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+label+" format", logger)
		return uuid.Nil, false
	}
	return id, true
}

// pathInt parses an integer path value, answering 400 when malformed.
func pathInt(w http.ResponseWriter, r *http.Request, name, label string, logger zerolog.Logger) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+label, logger)
		return 0, false
	}
	return n, true
}
