package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 指标名称。
const (
	MetricHTTPRequestsTotal   = "shoprank_http_requests_total"
	MetricHTTPRequestDuration = "shoprank_http_request_duration_seconds"
	MetricCacheLookups        = "shoprank_cache_lookups_total"
	MetricRankedItems         = "shoprank_ranked_items"
)

// Metrics 是服务的 Prometheus 指标集合，并发安全。
// 创建后需调用 Register 注册到 registry。
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	rankedItems     prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"route"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCacheLookups,
				Help: "Response cache lookups by result (hit|miss)",
			},
			[]string{"result"},
		),
		rankedItems: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRankedItems,
				Help:    "Number of products surviving the filter stage per ranking",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
	}
}

// Register 注册全部指标。
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.cacheLookups,
		m.rankedItems,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRanked(n int) {
	m.rankedItems.Observe(float64(n))
}
