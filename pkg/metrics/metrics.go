// Package metrics exposes Prometheus counters for SDK calls and received
// callbacks.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arcturial/clickatell/pkg/dispatcher"
)

const namespace = "clickatell"

// Metrics holds the SDK collectors.
type Metrics struct {
	registry *prometheus.Registry

	CallsTotal     *prometheus.CounterVec
	CallDuration   *prometheus.HistogramVec
	CallErrors     *prometheus.CounterVec
	CallbacksTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of completed SDK calls",
			},
			[]string{"operation", "transport", "status"},
		),

		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_seconds",
				Help:      "Transport round trip duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "transport"},
		),

		CallErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "call_errors_total",
				Help:      "Total number of gateway calls that returned an error",
			},
			[]string{"operation", "code"},
		),

		CallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callbacks_total",
				Help:      "Total number of accepted vendor callbacks",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(m.CallsTotal, m.CallDuration, m.CallErrors, m.CallbacksTotal)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Listener returns a response listener that counts and times every call.
func (m *Metrics) Listener() dispatcher.ResponseListener {
	return func(_ context.Context, ev dispatcher.ResponseEvent) {
		m.CallsTotal.WithLabelValues(ev.Call.Operation, ev.Call.Transport, string(ev.Envelope.Result.Status)).Inc()
		m.CallDuration.WithLabelValues(ev.Call.Operation, ev.Call.Transport).Observe(ev.Duration.Seconds())
	}
}

// ObserveResponse counts a failed gateway response. Successful ones are
// already counted by Listener.
func (m *Metrics) ObserveResponse(method string, resp *dispatcher.CallResponse) {
	if resp == nil || resp.Ok || resp.Error == nil {
		return
	}
	m.CallErrors.WithLabelValues(method, resp.Error.Code).Inc()
}

// Callback counts one accepted callback of kind.
func (m *Metrics) Callback(kind string) {
	m.CallbacksTotal.WithLabelValues(kind).Inc()
}
