package errors

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// MapTransportError maps errors returned by an HTTP round trip to AppError instances.
// It handles:
// - Context deadline → Timeout
// - Context cancellation → Canceled
// - url.Error / net.Error → Network
//
// Errors that are already AppErrors are returned unchanged.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}

	// Anything else from the client (url.Error, dial failures, resets) means no usable response.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return Network(urlErr.Err)
	}
	return Network(err)
}

// IsAppError checks if an error is an AppError with the given code.
func IsAppError(err error, code ErrorCode) bool {
	return isCode(err, code)
}
