// Package metrics collects Prometheus metrics for the HTTP layer, the cart
// and the avatar sweeper.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the middleware, services and workers report to.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordCartMutation(op, outcome string)
	RecordAssetDeleted()
	RecordAssetDeleteFailure()
	RecordAssetSkipped()
}

type Collector struct {
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	cartMutations   *prometheus.CounterVec
	assetsDeleted   prometheus.Counter
	assetDeleteFail prometheus.Counter
	assetsSkipped   prometheus.Counter
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appmarket_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "appmarket_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appmarket_cart_mutations_total",
			Help: "Cart add/remove operations by outcome",
		}, []string{"op", "outcome"}),
		assetsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appmarket_avatar_deleted_total",
			Help: "Old avatar objects removed from the bucket",
		}),
		assetDeleteFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appmarket_avatar_delete_fail_total",
			Help: "Old avatar deletions that failed",
		}),
		assetsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appmarket_avatar_delete_skipped_total",
			Help: "Deletions skipped because the key is a protected default",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.cartMutations,
		c.assetsDeleted,
		c.assetDeleteFail,
		c.assetsSkipped,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordCartMutation(op, outcome string) {
	c.cartMutations.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) RecordAssetDeleted() {
	c.assetsDeleted.Inc()
}

func (c *Collector) RecordAssetDeleteFailure() {
	c.assetDeleteFail.Inc()
}

func (c *Collector) RecordAssetSkipped() {
	c.assetsSkipped.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where metrics are not wired, such as tests.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordCartMutation(string, string)                {}
func (Nop) RecordAssetDeleted()                              {}
func (Nop) RecordAssetDeleteFailure()                        {}
func (Nop) RecordAssetSkipped()                              {}
