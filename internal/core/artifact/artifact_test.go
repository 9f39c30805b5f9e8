package artifact

import (
	"encoding/base64"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/adapters/driven/npntcrypto"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/adapters/driven/xmltree"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
)

// ingestRecorder captures metric calls for assertions.
type ingestRecorder struct {
	outcomes      []string
	verifications []bool
	fenceSizes    []int
}

func (r *ingestRecorder) RecordIngest(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *ingestRecorder) RecordVerification(success bool) {
	r.verifications = append(r.verifications, success)
}

func (r *ingestRecorder) RecordFenceSize(vertices int) {
	r.fenceSizes = append(r.fenceSizes, vertices)
}

func testHandle(t *testing.T, trusted *npntcrypto.RSAChecker, rec *ingestRecorder) *Handle {
	t.Helper()
	cfg := Config{
		Parser:  xmltree.NewParser(),
		Digest:  npntcrypto.NewSHA1,
		Checker: trusted,
		Logger:  zaptest.NewLogger(t),
	}
	if rec != nil {
		cfg.Metrics = rec
	}
	return NewHandle(cfg)
}

// TestHandle_IngestSuccess runs the full one-shot sequence on a validly
// signed artifact and checks the populated outputs.
func TestHandle_IngestSuccess(t *testing.T) {
	key := testRSAKey(t)
	raw := signedTestArtifact(t, key, defaultPayload, defaultTrailer)

	checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
	checker.AddPublicKey(&key.PublicKey)
	rec := &ingestRecorder{}
	h := testHandle(t, checker, rec)

	if err := h.SetPermissionArtifact(raw, false); err != nil {
		t.Fatalf("SetPermissionArtifact() = %v, want success", err)
	}
	if !h.Populated() {
		t.Fatal("handle not Populated after successful ingest")
	}

	fence, ok := h.Fence()
	if !ok {
		t.Fatal("Fence() not available after successful ingest")
	}
	if len(fence.Vertices) != 3 {
		t.Errorf("fence has %d vertices, want 3", len(fence.Vertices))
	}
	if fence.MaxAltitude != 120.5 {
		t.Errorf("MaxAltitude = %v, want 120.5", fence.MaxAltitude)
	}

	params, ok := h.FlightParams()
	if !ok {
		t.Fatal("FlightParams() not available after successful ingest")
	}
	if params.UINNo != "UIN-1401" {
		t.Errorf("UINNo = %q, want %q", params.UINNo, "UIN-1401")
	}

	if len(rec.outcomes) != 1 || rec.outcomes[0] != "ok" {
		t.Errorf("ingest outcomes = %v, want [ok]", rec.outcomes)
	}
	if len(rec.verifications) != 1 || !rec.verifications[0] {
		t.Errorf("verifications = %v, want [true]", rec.verifications)
	}
	if len(rec.fenceSizes) != 1 || rec.fenceSizes[0] != 3 {
		t.Errorf("fence sizes = %v, want [3]", rec.fenceSizes)
	}
}

// TestHandle_Base64Input verifies the base64-wrapped ingest path.
func TestHandle_Base64Input(t *testing.T) {
	key := testRSAKey(t)
	raw := signedTestArtifact(t, key, defaultPayload, defaultTrailer)
	wrapped := []byte(base64.StdEncoding.EncodeToString(raw))

	checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
	checker.AddPublicKey(&key.PublicKey)
	h := testHandle(t, checker, nil)

	if err := h.SetPermissionArtifact(wrapped, true); err != nil {
		t.Fatalf("SetPermissionArtifact(base64) = %v, want success", err)
	}
	if !h.Populated() {
		t.Fatal("handle not Populated")
	}
}

// TestHandle_SetOnce verifies the second call returns already_set and
// leaves the first call's result untouched.
func TestHandle_SetOnce(t *testing.T) {
	key := testRSAKey(t)
	raw := signedTestArtifact(t, key, defaultPayload, defaultTrailer)

	checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
	checker.AddPublicKey(&key.PublicKey)
	h := testHandle(t, checker, nil)

	if err := h.SetPermissionArtifact(raw, false); err != nil {
		t.Fatalf("first SetPermissionArtifact() = %v", err)
	}
	err := h.SetPermissionArtifact(raw, false)
	if code := domain.CodeOf(err); code != domain.ErrCodeAlreadySet {
		t.Fatalf("second SetPermissionArtifact() code = %q (%v), want %q", code, err, domain.ErrCodeAlreadySet)
	}
	if !h.Populated() {
		t.Error("first ingest result was disturbed by the rejected second call")
	}
}

// TestHandle_FailureIsTerminal verifies a failed ingest cannot be retried.
func TestHandle_FailureIsTerminal(t *testing.T) {
	checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
	h := testHandle(t, checker, nil)

	if err := h.SetPermissionArtifact([]byte("not xml at all <"), false); err == nil {
		t.Fatal("ingest of junk succeeded")
	}
	err := h.SetPermissionArtifact([]byte("<UAPermission/>"), false)
	if code := domain.CodeOf(err); code != domain.ErrCodeAlreadySet {
		t.Fatalf("retry code = %q (%v), want %q", code, err, domain.ErrCodeAlreadySet)
	}
}

// TestHandle_DecodeAndParseFailures verifies the early pipeline stages
// report parse_failed and expose no data.
func TestHandle_DecodeAndParseFailures(t *testing.T) {
	testCases := []struct {
		name   string
		data   string
		base64 bool
	}{
		{"invalid base64", "!!!not-base64!!!", true},
		{"not XML", "plain text, no markup", false},
		{"truncated XML", "<UAPermission><Permission>", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
			rec := &ingestRecorder{}
			h := testHandle(t, checker, rec)

			err := h.SetPermissionArtifact([]byte(tc.data), tc.base64)
			if code := domain.CodeOf(err); code != domain.ErrCodeParseFailed {
				t.Fatalf("code = %q (%v), want %q", code, err, domain.ErrCodeParseFailed)
			}
			if h.Populated() {
				t.Error("handle Populated after failed ingest")
			}
			if _, ok := h.Fence(); ok {
				t.Error("Fence() exposed after failed ingest")
			}
			if _, ok := h.FlightParams(); ok {
				t.Error("FlightParams() exposed after failed ingest")
			}
			if len(rec.outcomes) != 1 || rec.outcomes[0] != string(domain.ErrCodeParseFailed) {
				t.Errorf("ingest outcomes = %v", rec.outcomes)
			}
		})
	}
}

// TestHandle_BadFencePropagation verifies a verified artifact with a
// malformed geofence fails with bad_fence and exposes nothing.
func TestHandle_BadFencePropagation(t *testing.T) {
	key := testRSAKey(t)
	payload := `<UAPermission>
  <Permission>
    <UADetails uinNo="UIN-1401"/>
    <FlightParameters adcNumber="ADC-9" ficNumber="FIC-3" maxAltitude="120.5" flightStartTime="2020-01-15T10:00:00" flightEndTime="2020-01-15T12:30:00">
      <Coordinates></Coordinates>
    </FlightParameters>
  </Permission>
  `
	raw := signedTestArtifact(t, key, payload, defaultTrailer)

	checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
	checker.AddPublicKey(&key.PublicKey)
	h := testHandle(t, checker, nil)

	err := h.SetPermissionArtifact(raw, false)
	if code := domain.CodeOf(err); code != domain.ErrCodeBadFence {
		t.Fatalf("code = %q (%v), want %q", code, err, domain.ErrCodeBadFence)
	}
	if _, ok := h.Fence(); ok {
		t.Error("Fence() exposed after bad_fence")
	}
}

// TestHandle_InvalidParamsPropagation verifies a verified artifact with
// missing flight parameters fails with invalid_flight_params.
func TestHandle_InvalidParamsPropagation(t *testing.T) {
	key := testRSAKey(t)
	payload := `<UAPermission>
  <Permission>
    <UADetails uinNo="UIN-1401"/>
    <FlightParameters adcNumber="ADC-9" maxAltitude="120.5">
      <Coordinates>
        <Coordinate latitude="12.9716" longitude="77.5946"/>
        <Coordinate latitude="12.9726" longitude="77.5956"/>
        <Coordinate latitude="12.9736" longitude="77.5946"/>
      </Coordinates>
    </FlightParameters>
  </Permission>
  `
	raw := signedTestArtifact(t, key, payload, defaultTrailer)

	checker := npntcrypto.NewRSAChecker(nil, zaptest.NewLogger(t))
	checker.AddPublicKey(&key.PublicKey)
	h := testHandle(t, checker, nil)

	err := h.SetPermissionArtifact(raw, false)
	if code := domain.CodeOf(err); code != domain.ErrCodeInvalidFlightParams {
		t.Fatalf("code = %q (%v), want %q", code, err, domain.ErrCodeInvalidFlightParams)
	}
	if _, ok := h.FlightParams(); ok {
		t.Error("FlightParams() exposed after invalid_flight_params")
	}
}

// TestHandle_NilHandle verifies a nil handle reports unallocated_handle.
func TestHandle_NilHandle(t *testing.T) {
	var h *Handle
	err := h.SetPermissionArtifact([]byte("<UAPermission/>"), false)
	if code := domain.CodeOf(err); code != domain.ErrCodeUnallocatedHandle {
		t.Fatalf("code = %q (%v), want %q", code, err, domain.ErrCodeUnallocatedHandle)
	}
}
