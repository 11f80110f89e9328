package reviews

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// codeOK labels calls that returned without error.
const codeOK = "OK"

// Metrics collects Prometheus metrics for SDK calls. A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the SDK collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviews_sdk_requests_total",
				Help: "Total number of reviews API calls by outcome code",
			},
			[]string{"operation", "method", "code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reviews_sdk_request_duration_seconds",
				Help:    "Duration of reviews API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(operation, method string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	code := codeOK
	if err != nil {
		code = string(CodeUnknown)
		var sdkErr *Error
		if errors.As(err, &sdkErr) {
			code = string(sdkErr.Code)
		}
	}

	m.requestsTotal.WithLabelValues(operation, method, code).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
