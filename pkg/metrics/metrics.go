// Package metrics exposes prometheus collectors for outgoing backend and node
// traffic. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walletclient"

type Collector struct {
	Requests       *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	BalanceQueries *prometheus.CounterVec
	NodeDials      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector creates the collectors and registers them on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "requests_total",
			Help:      "Backend requests by method and outcome status code.",
		}, []string{"method", "code"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		BalanceQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "queries_total",
			Help:      "Node balance queries by kind (single, all) and result.",
		}, []string{"kind", "result"}),
		NodeDials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "node_dials_total",
			Help:      "Node connections opened by result.",
		}, []string{"result"}),
		gatherer: reg,
	}
	reg.MustRegister(c.Requests, c.RequestLatency, c.BalanceQueries, c.NodeDials)
	return c
}

func (c *Collector) ObserveRequest(method string, code int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	c.RequestLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveBalanceQuery(kind string, err error) {
	if c == nil {
		return
	}
	c.BalanceQueries.WithLabelValues(kind, result(err)).Inc()
}

func (c *Collector) ObserveDial(err error) {
	if c == nil {
		return
	}
	c.NodeDials.WithLabelValues(result(err)).Inc()
}

// Handler serves the collected metrics in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
