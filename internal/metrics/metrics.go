// Package metrics keeps the Prometheus collectors of the admin service on a
// private registry so tests can build as many instances as they need.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	unsynced    *prometheus.GaugeVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()

	apiRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "office_admin_api_requests_total",
			Help: "Remote API calls partitioned by resource, action and outcome.",
		},
		[]string{"resource", "action", "outcome"},
	)
	apiDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "office_admin_api_request_duration_seconds",
			Help:    "Latency of remote API calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "action"},
	)
	unsynced := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "office_admin_unsynced_records",
			Help: "Records whose last save failed, per resource.",
		},
		[]string{"resource"},
	)

	reg.MustRegister(apiRequests, apiDuration, unsynced)

	return &Collector{
		reg:         reg,
		apiRequests: apiRequests,
		apiDuration: apiDuration,
		unsynced:    unsynced,
	}
}

// ObserveAPICall records one remote call. A nil collector is a no-op.
func (c *Collector) ObserveAPICall(resource, action, outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.apiRequests.WithLabelValues(resource, action, outcome).Inc()
	c.apiDuration.WithLabelValues(resource, action).Observe(took.Seconds())
}

func (c *Collector) AddUnsynced(resource string, delta int) {
	if c == nil || delta == 0 {
		return
	}
	c.unsynced.WithLabelValues(resource).Add(float64(delta))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}
