package reviews

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/reviews/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"success":true}`))
	}, WithMetrics(metrics))

	ctx := context.Background()
	_, err := client.GetByID(ctx, "r1")
	require.NoError(t, err)
	_, err = client.GetByID(ctx, "r1")
	require.NoError(t, err)
	_, err = client.GetByID(ctx, "missing")
	require.Error(t, err)

	// Validation failures never reach the pipeline
	_, err = client.GetByID(ctx, "")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("get_by_id", http.MethodGet, codeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("get_by_id", http.MethodGet, string(CodeNotFound))))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.requestDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe("get_by_id", http.MethodGet, nil, 0)
	})
}
