package booking

import (
	"errors"
	"fmt"
)

// Error codes of the resolution core. Low-level parsing and transport
// errors are converted to one of these at each component boundary;
// handlers never see raw unstructured errors.
const (
	CodeValidation           = "validationError"
	CodeDataUnavailable      = "dataUnavailableError"
	CodeRateLimited          = "rateLimitedError"
	CodeIdentifierResolution = "identifierResolutionError"
	CodePaymentSession       = "paymentSessionError"
)

type CoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad user input; state is unchanged and
// the message is safe to show.
func NewValidationError(msg string) error {
	return &CoreError{Code: CodeValidation, Message: msg}
}

// NewDataUnavailableError reports a failed or malformed remote read.
// Callers recover by falling back to a safe empty result.
func NewDataUnavailableError(msg string, err error) error {
	return &CoreError{Code: CodeDataUnavailable, Message: msg, Err: err}
}

// NewRateLimitedError reports remote throttling that outlasted the
// cooperative wait.
func NewRateLimitedError(err error) error {
	return &CoreError{Code: CodeRateLimited, Message: "the booking service is busy, please retry shortly", Err: err}
}

// NewIdentifierResolutionError reports a booking that was written
// remotely but whose identifier could not be recovered. The message
// must distinguish "your booking exists" from "nothing happened".
func NewIdentifierResolutionError(err error) error {
	return &CoreError{
		Code:    CodeIdentifierResolution,
		Message: "your booking was recorded, but we could not start the payment step; please contact support instead of booking again",
		Err:     err,
	}
}

// NewPaymentSessionError reports a failed payment-session request for
// an already-persisted booking: retry the payment, not the booking.
func NewPaymentSessionError(bookingID int, err error) error {
	return &CoreError{
		Code:    CodePaymentSession,
		Message: fmt.Sprintf("your booking (#%d) is saved; only the payment step failed, please retry the payment", bookingID),
		Err:     err,
	}
}

// CodeOf extracts the taxonomy code from err, or "" for untyped errors.
func CodeOf(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
