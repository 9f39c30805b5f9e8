package artifact

import (
	"go.uber.org/zap"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// handleState tracks the one-shot lifecycle of a Handle.
type handleState int

const (
	stateEmpty handleState = iota
	stateRawSet
	stateParsed
	stateVerified
	statePopulated
	stateFailed
)

// Config wires a Handle's collaborators. Parser, Digest and Checker are
// required; Metrics and Logger may be nil.
type Config struct {
	Parser  ports.TreeParser
	Digest  ports.DigestFactory
	Checker ports.AuthenticityChecker
	Metrics ports.MetricsRecorder
	Logger  *zap.Logger
}

// Handle owns one permission-artifact lifecycle: raw bytes, parsed tree,
// and the extracted fence and flight parameters. Ingest either fully
// succeeds, after which the extracted data is immutable and safe for
// unsynchronized concurrent reads, or fails at the first broken step and
// the handle is terminally failed. A handle is not safe for concurrent
// ingestion; callers construct one handle per concurrent verification.
type Handle struct {
	raw    []byte
	tree   ports.Document
	fence  domain.Fence
	params domain.FlightParams
	state  handleState

	parser   ports.TreeParser
	verifier *Verifier
	metrics  ports.MetricsRecorder
	logger   *zap.Logger
}

// NewHandle creates an empty Handle.
func NewHandle(cfg Config) *Handle {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{
		parser:   cfg.Parser,
		verifier: NewVerifier(cfg.Digest, cfg.Checker, logger),
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// SetPermissionArtifact ingests a permission artifact: decode, parse,
// verify, then extract fence, altitude and flight parameters. Callable
// exactly once per handle; a second call returns already_set and leaves
// the first call's outcome untouched. On any failure the specific error
// propagates and no extracted data is exposed.
func (h *Handle) SetPermissionArtifact(data []byte, base64Encoded bool) error {
	if h == nil {
		return domain.UnallocatedHandleError()
	}
	if h.state != stateEmpty {
		return domain.AlreadySetError()
	}

	if base64Encoded {
		decoded, err := decodeBase64Text(string(data))
		if err != nil {
			return h.fail(domain.ParseError("artifact is not valid base64", err))
		}
		h.raw = decoded
	} else {
		h.raw = append([]byte(nil), data...)
	}
	h.state = stateRawSet

	tree, err := h.parser.Parse(h.raw)
	if err != nil {
		return h.fail(domain.ParseError("artifact is not well-formed XML", err))
	}
	h.tree = tree
	h.state = stateParsed

	if err := h.verifier.Verify(h.raw, h.tree); err != nil {
		h.recordVerification(false)
		return h.fail(err)
	}
	h.recordVerification(true)
	h.state = stateVerified

	vertices, err := extractFence(h.tree)
	if err != nil {
		h.fence.Vertices = nil
		return h.fail(domain.BadFenceError("could not populate geofence", err))
	}
	h.fence.Vertices = vertices

	altitude, err := extractMaxAltitude(h.tree)
	if err != nil {
		return h.fail(domain.InvalidAltitudeError("could not populate max altitude", err))
	}
	h.fence.MaxAltitude = altitude

	params, err := extractFlightParams(h.tree)
	if err != nil {
		h.fence.Vertices = nil
		return h.fail(domain.InvalidFlightParamsError("could not populate flight parameters", err))
	}
	h.params = params

	h.state = statePopulated
	if h.metrics != nil {
		h.metrics.RecordIngest("ok")
		h.metrics.RecordFenceSize(len(h.fence.Vertices))
	}
	h.logger.Info("permission artifact verified and populated",
		zap.Int("fence_vertices", len(h.fence.Vertices)),
		zap.Float64("max_altitude", h.fence.MaxAltitude),
		zap.String("uin", h.params.UINNo))
	return nil
}

// fail transitions the handle to its terminal failure state.
func (h *Handle) fail(err error) error {
	h.state = stateFailed
	if h.metrics != nil {
		h.metrics.RecordIngest(domain.CodeOf(err).String())
	}
	h.logger.Warn("permission artifact rejected",
		zap.String("code", domain.CodeOf(err).String()),
		zap.Error(err))
	return err
}

func (h *Handle) recordVerification(success bool) {
	if h.metrics != nil {
		h.metrics.RecordVerification(success)
	}
}

// Populated reports whether ingest fully succeeded.
func (h *Handle) Populated() bool {
	return h != nil && h.state == statePopulated
}

// Fence returns the authorized geofence. ok is false unless the handle is
// Populated. Callers must treat the vertex slice as read-only.
func (h *Handle) Fence() (fence domain.Fence, ok bool) {
	if !h.Populated() {
		return domain.Fence{}, false
	}
	return h.fence, true
}

// FlightParams returns the authorized flight parameters. ok is false
// unless the handle is Populated.
func (h *Handle) FlightParams() (params domain.FlightParams, ok bool) {
	if !h.Populated() {
		return domain.FlightParams{}, false
	}
	return h.params, true
}
