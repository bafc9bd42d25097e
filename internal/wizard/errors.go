package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound    = errors.New("wizard session not found")
	ErrSessionClosed      = errors.New("wizard session was closed")
	ErrHandoffNotFound    = errors.New("handoff expired or already used")
	ErrNotOperator        = errors.New("only operators can do this")
	ErrInvalidTransition  = errors.New("action not allowed in the current payment state")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrCouponObsolete is returned to a coupon request superseded by a newer
	// request or an eligibility change. Its result has been discarded.
	ErrCouponObsolete = errors.New("coupon request superseded")
	ErrUnknownService = errors.New("unknown service")
	ErrUnknownStep    = errors.New("step is not visible")
)

// FormValidationError blocks navigation or submission until the user corrects the draft
type FormValidationError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e *FormValidationError) Error() string {
	return e.Title + ": " + e.Message
}

func formError(title, format string, args ...interface{}) *FormValidationError {
	return &FormValidationError{Title: title, Message: fmt.Sprintf(format, args...)}
}

// CouponError is a rejected or failed coupon application. The coupon state is already cleared.
type CouponError struct {
	Code    string
	Message string
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %q: %s", e.Code, e.Message)
}

// PaymentGatewayError is a failed, dismissed or unverifiable online payment
type PaymentGatewayError struct {
	Stage string // create_order, verify, dismissed
	Err   error
}

func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Stage, e.Err)
}

func (e *PaymentGatewayError) Unwrap() error {
	return e.Err
}

// SubmissionError is a booking the server refused to store. The draft is kept for a retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("booking submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ConflictError means the time slot was booked by someone else before submission
type ConflictError struct {
	TimeSlot string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot %s is no longer available", e.TimeSlot)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
