// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package xcall

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidPayment is returned by a dispatch whose attached payment is not
	// strictly positive. Nothing is called and nothing is written.
	ErrInvalidPayment = errors.New("gas payment is required")

	// ErrExternalCall wraps any failure surfaced by the gas service or the gateway.
	ErrExternalCall = errors.New("external call failed")

	// ErrRefundFailed is returned alongside ErrExternalCall when the gas payment
	// of a failed dispatch could not be refunded.
	ErrRefundFailed = errors.New("gas refund failed")

	// ErrUninitializedRead is returned when the received message is read before
	// any message was received.
	ErrUninitializedRead = errors.New("no message received yet")

	// ErrNotInitialized is returned when a configuration slot is read before
	// the endpoint was initialized.
	ErrNotInitialized = errors.New("endpoint not initialized")

	// ErrUnauthorizedCaller is returned when an inbound message comes from a
	// caller outside the trusted gateway set.
	ErrUnauthorizedCaller = errors.New("caller is not a trusted gateway")
)

// Error represents an xcall error with a status code suitable for API responses
type Error struct {
	Code    int32
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("xcall error %d: %s", e.Code, e.Message)
}

// ToError maps err onto an *Error, choosing the code from the sentinel it wraps.
func ToError(err error) *Error {
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidPayment):
		code = http.StatusBadRequest
	case errors.Is(err, ErrUnauthorizedCaller):
		code = http.StatusForbidden
	case errors.Is(err, ErrUninitializedRead), errors.Is(err, ErrNotInitialized):
		code = http.StatusNotFound
	case errors.Is(err, ErrExternalCall):
		code = http.StatusBadGateway
	}
	return &Error{
		Code:    int32(code),
		Message: err.Error(),
	}
}
