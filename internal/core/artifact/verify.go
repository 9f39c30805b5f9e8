package artifact

import (
	"bytes"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// Literal markers located by substring search over the raw document bytes.
// Digesting must cover the exact original serialization, so region bounds
// are found in the raw bytes rather than through the parsed tree, which
// would re-serialize and break the digest.
const (
	signedInfoCanonicalOpen = `<SignedInfo xmlns="http://www.w3.org/2000/09/xmldsig#">`
	signedInfoOpen          = "<SignedInfo>"
	signatureValueOpen      = "<SignatureValue"
	uaPermissionOpen        = "<UAPermission>"
	signatureOpen           = "<Signature"
	signatureClose          = "</Signature>"
)

// Verifier proves a permission artifact was not altered since signing and
// was signed by a trusted key. It authenticates the SignedInfo block with
// the embedded signature, then checks the payload against the DigestValue
// carried inside the authenticated block, so a valid signature transitively
// authenticates the payload digest.
type Verifier struct {
	newDigest ports.DigestFactory
	checker   ports.AuthenticityChecker
	logger    *zap.Logger
}

// NewVerifier creates a Verifier. A nil logger disables logging.
func NewVerifier(newDigest ports.DigestFactory, checker ports.AuthenticityChecker, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{newDigest: newDigest, checker: checker, logger: logger}
}

// Verify runs the two-stage protocol over the raw document bytes and the
// parsed tree. It short-circuits on the first failure and returns a
// specific domain error; nil means both the signature and the payload
// digest check out.
func (v *Verifier) Verify(raw []byte, doc ports.Document) error {
	signedInfoDigest, err := v.digestSignedInfo(raw)
	if err != nil {
		return err
	}

	signature, err := v.embeddedSignature(doc)
	if err != nil {
		return err
	}

	ok, err := v.checker.CheckAuthenticity(signedInfoDigest, signature)
	if err != nil {
		return domain.AuthenticityError("authenticity check failed", err)
	}
	if !ok {
		v.logger.Warn("artifact signature does not validate against any trusted key")
		return domain.AuthenticityError("artifact not signed by a trusted key", nil)
	}

	payloadDigest, err := v.digestPayload(raw)
	if err != nil {
		return err
	}

	if err := v.comparePayloadDigest(payloadDigest, doc); err != nil {
		return err
	}

	v.logger.Debug("artifact verified",
		zap.Int("document_bytes", len(raw)))
	return nil
}

// digestSignedInfo canonicalizes the SignedInfo body and returns its
// digest. The body runs from just after the <SignedInfo> open tag to the
// start of <SignatureValue>, so it includes the </SignedInfo> close tag.
// The namespace-qualified open tag the signer digested is fed as a fixed
// prefix, uncanonicalized.
func (v *Verifier) digestSignedInfo(raw []byte) ([]byte, error) {
	open := bytes.Index(raw, []byte(signedInfoOpen))
	if open < 0 {
		return nil, domain.InvalidArtifactError("document has no SignedInfo element")
	}
	bodyStart := open + len(signedInfoOpen)
	sigValue := bytes.Index(raw, []byte(signatureValueOpen))
	if sigValue < bodyStart {
		return nil, domain.InvalidArtifactError("SignedInfo region cannot be bounded by SignatureValue")
	}

	acc := v.newDigest()
	acc.Update([]byte(signedInfoCanonicalOpen))
	if err := canonicalizeInto(acc, raw[bodyStart:sigValue]); err != nil {
		return nil, err
	}
	return acc.Sum(), nil
}

// embeddedSignature extracts and decodes the SignatureValue text content.
func (v *Verifier) embeddedSignature(doc ports.Document) ([]byte, error) {
	node := doc.Find("SignatureValue")
	if node == nil {
		return nil, domain.InvalidSignatureFieldError("document has no SignatureValue element")
	}
	text := node.Text()
	if text == "" {
		return nil, domain.InvalidSignatureFieldError("SignatureValue element is empty")
	}
	sig, err := decodeBase64Text(text)
	if err != nil {
		return nil, domain.InvalidSignatureFieldError("SignatureValue is not valid base64")
	}
	return sig, nil
}

// digestPayload canonicalizes the UAPermission body up to the Signature
// element, then feeds the remainder of the document after </Signature>
// verbatim: trailing content is part of the signed payload but was never
// canonicalized by the signer.
func (v *Verifier) digestPayload(raw []byte) ([]byte, error) {
	start := bytes.Index(raw, []byte(uaPermissionOpen))
	if start < 0 {
		return nil, domain.InvalidArtifactError("document has no UAPermission element")
	}
	sigStart := bytes.Index(raw, []byte(signatureOpen))
	if sigStart < start {
		return nil, domain.InvalidArtifactError("UAPermission region cannot be bounded by Signature")
	}
	sigEnd := bytes.Index(raw, []byte(signatureClose))
	if sigEnd < 0 {
		return nil, domain.InvalidArtifactError("document has no Signature close tag")
	}

	acc := v.newDigest()
	if err := canonicalizeInto(acc, raw[start:sigStart]); err != nil {
		return nil, err
	}
	acc.Update(raw[sigEnd+len(signatureClose):])
	return acc.Sum(), nil
}

// comparePayloadDigest base64-encodes the computed payload digest and
// compares it against the DigestValue text from the tree.
//
// The comparison covers every byte except the final base64 pad byte
// (comparableDigestLen). Existing signers serialize the trailing pad
// inconsistently and artifacts in the field were issued against a verifier
// with the same laxity, so full-length comparison would reject validly
// signed artifacts. A 160-bit digest still has its full strength behind
// the compared prefix.
func (v *Verifier) comparePayloadDigest(payloadDigest []byte, doc ports.Document) error {
	node := doc.Find("DigestValue")
	if node == nil {
		return domain.InvalidArtifactError("document has no DigestValue element")
	}
	received := strings.TrimSpace(node.Text())

	encoded := base64.StdEncoding.EncodeToString(payloadDigest)
	comparableDigestLen := len(encoded) - 1
	if len(received) < comparableDigestLen {
		return domain.DigestMismatchError("DigestValue is shorter than the computed digest")
	}
	if received[:comparableDigestLen] != encoded[:comparableDigestLen] {
		v.logger.Warn("payload digest mismatch",
			zap.String("computed", encoded),
			zap.String("received", received))
		return domain.DigestMismatchError("permission payload was altered after signing")
	}
	return nil
}

// decodeBase64Text decodes base64 text content that may carry the line
// breaks and indentation XML serializers insert into long values.
func decodeBase64Text(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(s)
}
