// Package metrics provides the metrics-recorder adapters: Prometheus for
// production and a no-op for disabled/testing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// NoopMetricsRecorder is a no-op implementation for when metrics are
// disabled. All methods are safe to call and do nothing.
type NoopMetricsRecorder struct{}

var _ ports.MetricsRecorder = (*NoopMetricsRecorder)(nil)

// NewNoopMetricsRecorder creates a new no-op metrics recorder.
func NewNoopMetricsRecorder() *NoopMetricsRecorder {
	return &NoopMetricsRecorder{}
}

// RecordIngest is a no-op.
func (n *NoopMetricsRecorder) RecordIngest(outcome string) {}

// RecordVerification is a no-op.
func (n *NoopMetricsRecorder) RecordVerification(success bool) {}

// RecordFenceSize is a no-op.
func (n *NoopMetricsRecorder) RecordFenceSize(vertices int) {}

// PrometheusMetricsRecorder records metrics using Prometheus.
type PrometheusMetricsRecorder struct {
	ingestTotal        *prometheus.CounterVec
	verificationsTotal *prometheus.CounterVec
	fenceVertices      prometheus.Histogram
}

var _ ports.MetricsRecorder = (*PrometheusMetricsRecorder)(nil)

// NewPrometheusMetricsRecorder creates a recorder and registers its
// collectors with reg (prometheus.DefaultRegisterer if nil).
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PrometheusMetricsRecorder{
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "npnt",
			Name:      "artifact_ingest_total",
			Help:      "Permission artifact ingest attempts by outcome code.",
		}, []string{"outcome"}),
		verificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "npnt",
			Name:      "signature_verifications_total",
			Help:      "Artifact signature verification attempts by result.",
		}, []string{"result"}),
		fenceVertices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "npnt",
			Name:      "fence_vertices",
			Help:      "Vertex counts of successfully extracted geofences.",
			Buckets:   []float64{3, 4, 6, 8, 16, 32, 64, 128},
		}),
	}

	for _, c := range []prometheus.Collector{r.ingestTotal, r.verificationsTotal, r.fenceVertices} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordIngest records one artifact ingest attempt and its outcome code.
func (r *PrometheusMetricsRecorder) RecordIngest(outcome string) {
	r.ingestTotal.WithLabelValues(outcome).Inc()
}

// RecordVerification records a signature verification attempt.
func (r *PrometheusMetricsRecorder) RecordVerification(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	r.verificationsTotal.WithLabelValues(result).Inc()
}

// RecordFenceSize records the vertex count of an extracted geofence.
func (r *PrometheusMetricsRecorder) RecordFenceSize(vertices int) {
	r.fenceVertices.Observe(float64(vertices))
}
