package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcturial/clickatell/pkg/dispatcher"
	"github.com/arcturial/clickatell/pkg/envelope"
)

func TestListener(t *testing.T) {
	m := New()
	l := m.Listener()

	ev := dispatcher.ResponseEvent{
		Call:     dispatcher.Call{Operation: "getBalance", Transport: "http"},
		Envelope: envelope.Success(map[string]interface{}{"balance": 5.0}),
		Duration: 250 * time.Millisecond,
	}
	l(context.Background(), ev)
	l(context.Background(), ev)
	ev.Envelope = envelope.Failure("001, Authentication failed")
	l(context.Background(), ev)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallsTotal.WithLabelValues("getBalance", "http", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallsTotal.WithLabelValues("getBalance", "http", "failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CallDuration))
}

func TestObserveResponse(t *testing.T) {
	m := New()

	m.ObserveResponse("sendMessage", &dispatcher.CallResponse{Ok: true})
	m.ObserveResponse("sendMessage", nil)
	m.ObserveResponse("sendMessage", &dispatcher.CallResponse{
		Error: &dispatcher.ErrorDetail{Code: "VALIDATION_FAILED"},
	})

	assert.Equal(t, 1, testutil.CollectAndCount(m.CallErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallErrors.WithLabelValues("sendMessage", "VALIDATION_FAILED")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Callback("mt")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `clickatell_callbacks_total{kind="mt"} 1`))
}
