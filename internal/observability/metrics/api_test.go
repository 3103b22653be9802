package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/storefront/internal/errors"
)

type recordedMetric struct {
	name string
	kind string
	tags map[string]string
}

type recordingSink struct {
	metrics []recordedMetric
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{name: name, kind: "count", tags: tags})
}

func (r *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{name: name, kind: "timing", tags: tags})
}

func TestEmitAPICall_Success(t *testing.T) {
	sink := &recordingSink{}
	EmitAPICall(sink, APICall{Endpoint: EndpointLogin, Duration: 40 * time.Millisecond})

	assert.Len(t, sink.metrics, 2)
	assert.Equal(t, "api.request", sink.metrics[0].name)
	assert.Equal(t, map[string]string{"endpoint": "login", "result": "success"}, sink.metrics[0].tags)
	assert.Equal(t, "api.duration", sink.metrics[1].name)
}

func TestEmitAPICall_Error(t *testing.T) {
	sink := &recordingSink{}
	EmitAPICall(sink, APICall{Endpoint: EndpointProfile, Err: apperrors.AuthRejected(401, "Unauthorized")})

	assert.Len(t, sink.metrics, 1, "no timing without a duration")
	assert.Equal(t, "error", sink.metrics[0].tags["result"])
	assert.Equal(t, "auth_rejected", sink.metrics[0].tags["error_code"])
}

func TestEmitAPICall_NilSink(t *testing.T) {
	assert.NotPanics(t, func() { EmitAPICall(nil, APICall{Endpoint: EndpointProducts}) })
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "network", ErrorCode(apperrors.Network(errors.New("x"))))
	assert.Equal(t, "unknown", ErrorCode(errors.New("plain")))
}
