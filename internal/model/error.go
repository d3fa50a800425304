package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Action   string `json:"action,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// ErrorKind classifies domain errors for transport mapping.
type ErrorKind string

// Error kinds. The HTTP layer maps each kind to exactly one status code.
const (
	KindValidation           ErrorKind = "validation"
	KindNotFound             ErrorKind = "not_found"
	KindInvalidOrExpiredCode ErrorKind = "invalid_or_expired_code"
	KindConflict             ErrorKind = "conflict"
	KindForbidden            ErrorKind = "forbidden"
	KindUnauthorised         ErrorKind = "unauthorised"
	KindRateLimited          ErrorKind = "rate_limited"
	KindPaymentDeclined      ErrorKind = "payment_declined"
	KindUpstream             ErrorKind = "upstream"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeInvalidPhone         = "INVALID_PHONE"
	ErrCodeInvalidOrExpiredCode = "INVALID_OR_EXPIRED_CODE"
	ErrCodeResendTooSoon        = "RESEND_TOO_SOON"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidSize          = "INVALID_SIZE"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeCartLineNotFound     = "CART_LINE_NOT_FOUND"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodePhoneNotVerified     = "PHONE_NOT_VERIFIED"
	ErrCodePaymentDeclined      = "PAYMENT_DECLINED"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodePhoneTaken           = "PHONE_TAKEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeUpstream             = "UPSTREAM_FAILURE"
)

// DomainError is a business-logic error carrying its classification.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that copies made with WithMessage
// still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: message}
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error for a malformed or missing field.
func NewValidationError(message string) *DomainError {
	return NewDomainError(KindValidation, ErrCodeMissingField, message)
}

// AsDomainError extracts a *DomainError from err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrInvalidPhone         = NewDomainError(KindValidation, ErrCodeInvalidPhone, "Invalid phone number")
	ErrInvalidOrExpiredCode = NewDomainError(KindInvalidOrExpiredCode, ErrCodeInvalidOrExpiredCode, "Invalid or expired OTP")
	ErrResendTooSoon        = NewDomainError(KindRateLimited, ErrCodeResendTooSoon, "Please wait before requesting another OTP")
	ErrProductNotFound      = NewDomainError(KindNotFound, ErrCodeProductNotFound, "Product not found")
	ErrInvalidSize          = NewDomainError(KindValidation, ErrCodeInvalidSize, "Selected size is not available for this product")
	ErrInvalidQuantity      = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be between 1 and 10")
	ErrCartLineNotFound     = NewDomainError(KindNotFound, ErrCodeCartLineNotFound, "Item not found in cart")
	ErrEmptyCart            = NewDomainError(KindConflict, ErrCodeEmptyCart, "Your cart is empty")
	ErrPhoneNotVerified     = NewDomainError(KindForbidden, ErrCodePhoneNotVerified, "Phone verification required")
	ErrPaymentDeclined      = NewDomainError(KindPaymentDeclined, ErrCodePaymentDeclined, "Payment was declined")
	ErrUserNotFound         = NewDomainError(KindNotFound, ErrCodeUserNotFound, "User not found")
	ErrOrderNotFound        = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrEmailTaken           = NewDomainError(KindConflict, ErrCodeEmailTaken, "Email is already registered")
	ErrPhoneTaken           = NewDomainError(KindConflict, ErrCodePhoneTaken, "Phone number is already linked to another account")
	ErrInvalidCredentials   = NewDomainError(KindUnauthorised, ErrCodeInvalidCredentials, "Invalid email or password")
	ErrUnauthorised         = NewDomainError(KindUnauthorised, ErrCodeUnauthorised, "Authentication required")
	ErrForbidden            = NewDomainError(KindForbidden, ErrCodeForbidden, "You are not allowed to perform this action")
	ErrUpstream             = NewDomainError(KindUpstream, ErrCodeUpstream, "Upstream service failure")
)
