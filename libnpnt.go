// Package libnpnt validates digitally-signed NPNT permission artifacts —
// XML documents granting a vehicle authorization to operate within a
// geofenced airspace for a bounded time window — and exposes the geofence,
// maximum altitude, and flight-window/identity fields they authorize.
//
// One Handle carries exactly one artifact lifecycle: construct a Handle
// with the issuer's trust anchors, call SetPermissionArtifact once, and
// read Fence/FlightParams only if it succeeded.
package libnpnt

import (
	"crypto/rsa"
	"crypto/x509"

	"go.uber.org/zap"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/adapters/driven/metrics"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/adapters/driven/npntcrypto"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/adapters/driven/xmltree"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/artifact"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// Re-export domain types for consumers.
type (
	ErrorCode    = domain.ErrorCode
	AppError     = domain.AppError
	Fence        = domain.Fence
	Vertex       = domain.Vertex
	FlightParams = domain.FlightParams
	CivilTime    = domain.CivilTime
	Handle       = artifact.Handle
)

// MetricsRecorder is the metrics port; pass an implementation in Config to
// record ingest/verification metrics.
type MetricsRecorder = ports.MetricsRecorder

// Re-export error code constants.
const (
	ErrCodeUnallocatedHandle     = domain.ErrCodeUnallocatedHandle
	ErrCodeAlreadySet            = domain.ErrCodeAlreadySet
	ErrCodeParseFailed           = domain.ErrCodeParseFailed
	ErrCodeInvalidArtifact       = domain.ErrCodeInvalidArtifact
	ErrCodeInvalidSignatureField = domain.ErrCodeInvalidSignatureField
	ErrCodeInvalidAuthenticity   = domain.ErrCodeInvalidAuthenticity
	ErrCodeDigestMismatch        = domain.ErrCodeDigestMismatch
	ErrCodeBadFence              = domain.ErrCodeBadFence
	ErrCodeInvalidAltitude       = domain.ErrCodeInvalidAltitude
	ErrCodeInvalidFlightParams   = domain.ErrCodeInvalidFlightParams
	ErrCodeMalformedDocument     = domain.ErrCodeMalformedDocument
)

// CodeOf extracts the ErrorCode from an error returned by this library.
var CodeOf = domain.CodeOf

// Adapter constructors re-exported for wiring.
var (
	LoadTrustedCertificates = npntcrypto.LoadTrustedCertificates
	LoadRSAPublicKey        = npntcrypto.LoadRSAPublicKey
	NewPrometheusMetrics    = metrics.NewPrometheusMetricsRecorder
	NewNoopMetrics          = metrics.NewNoopMetricsRecorder
)

// Config configures a Handle. At least one trust anchor (certificate or
// raw key) is required for verification to ever succeed.
type Config struct {
	// TrustedCerts are the issuer certificates whose keys may sign
	// artifacts. Multiple certificates support key rollover.
	TrustedCerts []*x509.Certificate

	// TrustedKeys are additional raw RSA trust anchors.
	TrustedKeys []*rsa.PublicKey

	// Metrics records ingest/verification metrics; nil disables.
	Metrics MetricsRecorder

	// Logger is used for structured logging; nil disables.
	Logger *zap.Logger
}

// New creates a Handle wired with the default adapters: etree XML parsing,
// SHA-1 digesting, and RSA PKCS#1 v1.5 authenticity checking.
func New(cfg Config) *Handle {
	checker := npntcrypto.NewRSAChecker(cfg.TrustedCerts, cfg.Logger)
	for _, key := range cfg.TrustedKeys {
		checker.AddPublicKey(key)
	}
	return artifact.NewHandle(artifact.Config{
		Parser:  xmltree.NewParser(),
		Digest:  npntcrypto.NewSHA1,
		Checker: checker,
		Metrics: cfg.Metrics,
		Logger:  cfg.Logger,
	})
}
