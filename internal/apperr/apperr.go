package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for the HTTP error handler.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindInsufficientBalance
	KindGateway
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindGateway:
		return "gateway"
	default:
		return "internal"
	}
}

// Error carries a kind plus a user-facing reason string. The wrapped error is
// for logs only and never serialized to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap converts a lower-layer error into an internal Error without leaking it.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

func Validationf(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return Newf(KindConflict, format, args...)
}

func Gatewayf(format string, args ...interface{}) *Error {
	return Newf(KindGateway, format, args...)
}

// Ledger race losses. Surfaced to the end user as "try again", never retried
// silently by the server.
var (
	ErrInsufficientStock   = New(KindInsufficientStock, "someone else just bought the last unit")
	ErrInsufficientBalance = New(KindInsufficientBalance, "mileage balance is insufficient")
)

// KindOf extracts the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the user-facing message of err, or a generic fallback for
// untyped errors so internals never leak.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
