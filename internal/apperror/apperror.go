// Package apperror holds the failure kinds every service operation reports.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Unauthorized     Kind = "unauthorized"
	Forbidden        Kind = "forbidden"
	NotFound         Kind = "not_found"
	ProductNotFound  Kind = "product_not_found"
	CartNotFound     Kind = "cart_not_found"
	ItemNotFound     Kind = "item_not_found"
	OutOfStock       Kind = "out_of_stock"
	Validation       Kind = "validation_error"
	Conflict         Kind = "conflict"
	StoreUnavailable Kind = "store_unavailable"
)

// Error is a failure with a machine-checkable kind and a message for the UI.
// Remaining is only meaningful for OutOfStock.
type Error struct {
	Kind      Kind
	Message   string
	Remaining int
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so callers can write errors.Is(err, apperror.New(apperror.OutOfStock, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewUnauthorized() *Error {
	return New(Unauthorized, "Unauthorized")
}

func NewOutOfStock(remaining int) *Error {
	return &Error{
		Kind:      OutOfStock,
		Message:   fmt.Sprintf("Chỉ còn %d sản phẩm trong kho", remaining),
		Remaining: remaining,
	}
}

func NewValidation(message string) *Error {
	return New(Validation, message)
}

// NewStoreUnavailable hides the cause from the client; it stays reachable through Unwrap.
func NewStoreUnavailable(err error) *Error {
	return Wrap(StoreUnavailable, "Đã có lỗi xảy ra, vui lòng thử lại", err)
}

// KindOf returns the kind of err, or StoreUnavailable for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StoreUnavailable
}

// As is a shorthand for errors.As into *Error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
