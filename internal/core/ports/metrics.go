package ports

// MetricsRecorder is the port interface for recording metrics.
// Implementations are adapters (PrometheusMetricsRecorder for production,
// NoopMetricsRecorder for disabled/testing).
type MetricsRecorder interface {
	// RecordIngest records one artifact ingest attempt and its outcome
	// code ("ok" on success, the error code otherwise).
	RecordIngest(outcome string)

	// RecordVerification records a signature verification attempt.
	RecordVerification(success bool)

	// RecordFenceSize records the vertex count of a successfully
	// extracted geofence.
	RecordFenceSize(vertices int)
}
