package model

import "time"

// OtpChallenge is a live verification code bound to a phone number.
// Only the SHA-256 digest of the code is kept.
type OtpChallenge struct {
	PhoneNumber string    `db:"phone_number"`
	CodeHash    string    `db:"code_hash"`
	IssuedAt    time.Time `db:"issued_at"`
	ExpiresAt   time.Time `db:"expires_at"`
}

// Expired reports whether the challenge is past its expiry at now.
func (c *OtpChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// SendOTPRequest is the payload for issuing or resending a code.
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// VerifyOTPRequest is the payload for verifying a code.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyOTPResponse acknowledges a verified phone and names the gated
// action that was waiting on it.
type VerifyOTPResponse struct {
	Message       string `json:"message"`
	PendingAction string `json:"pendingAction,omitempty"`
}
