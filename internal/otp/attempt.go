package otp

import "errors"

// ErrInvalidTransition is returned when an Attempt is driven out of order.
var ErrInvalidTransition = errors.New("otp: invalid attempt transition")

// State is a step of a verification attempt.
type State int

const (
	AwaitingPhone State = iota
	AwaitingCode
	Verified
	Aborted
)

func (s State) String() string {
	switch s {
	case AwaitingPhone:
		return "awaiting_phone"
	case AwaitingCode:
		return "awaiting_code"
	case Verified:
		return "verified"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Action is a user action deferred until phone verification succeeds.
type Action string

const (
	ActionNone      Action = ""
	ActionAddToCart Action = "add_to_cart"
	ActionBuyNow    Action = "buy_now"
	ActionCheckout  Action = "checkout"
)

// Attempt tracks one verification attempt:
// AwaitingPhone → AwaitingCode → (Verified | Aborted).
// It is not safe for concurrent use.
type Attempt struct {
	state   State
	phone   string
	pending Action
}

// NewAttempt starts an attempt bound to a gated action (may be ActionNone).
func NewAttempt(action Action) *Attempt {
	return &Attempt{state: AwaitingPhone, pending: action}
}

// State returns the current step.
func (a *Attempt) State() State { return a.state }

// Phone returns the phone number the code was sent to.
func (a *Attempt) Phone() string { return a.phone }

// Pending returns the gated action waiting on this attempt.
func (a *Attempt) Pending() Action { return a.pending }

// Active reports whether the attempt has not reached a terminal state.
func (a *Attempt) Active() bool {
	return a.state == AwaitingPhone || a.state == AwaitingCode
}

// Bind replaces the pending action of an active attempt.
func (a *Attempt) Bind(action Action) error {
	if !a.Active() {
		return ErrInvalidTransition
	}
	a.pending = action
	return nil
}

// CodeSent records that a code was issued to phone. Sending again while
// awaiting a code (resend, or a corrected number) stays in AwaitingCode.
func (a *Attempt) CodeSent(phone string) error {
	if !a.Active() {
		return ErrInvalidTransition
	}
	a.phone = phone
	a.state = AwaitingCode
	return nil
}

// Complete marks the attempt verified for phone and returns the action that
// may now proceed.
func (a *Attempt) Complete(phone string) (Action, error) {
	if a.state != AwaitingCode || a.phone != phone {
		return ActionNone, ErrInvalidTransition
	}
	a.state = Verified
	return a.pending, nil
}

// Abort ends an active attempt without verification.
func (a *Attempt) Abort() error {
	if !a.Active() {
		return ErrInvalidTransition
	}
	a.state = Aborted
	return nil
}
