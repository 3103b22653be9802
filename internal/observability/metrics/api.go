// Package metrics holds the storefront's metric names and tag conventions.
package metrics

import (
	"time"

	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Endpoint names used as the "endpoint" tag.
const (
	EndpointLogin    = "login"
	EndpointProfile  = "profile"
	EndpointProducts = "products"
)

// APICall captures one remote call for metric emission.
type APICall struct {
	Endpoint string
	Duration time.Duration
	Err      error
}

// EmitAPICall emits api.request and api.duration for a finished call.
func EmitAPICall(sink statsd.Sink, in APICall) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"endpoint": in.Endpoint,
		"result":   ResultSuccess,
	}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_code"] = ErrorCode(in.Err)
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.duration", in.Duration, tags)
	}
}

// ErrorCode returns the AppError code of err, or "unknown".
func ErrorCode(err error) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return "unknown"
}
