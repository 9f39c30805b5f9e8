package npntcrypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec
	"crypto/x509"
	"errors"
	"fmt"

	dsig "github.com/russellhaering/goxmldsig"
	"go.uber.org/zap"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// RSAChecker verifies that a SHA-1 digest was signed by a trusted key
// using RSA PKCS#1 v1.5. Trust anchors live in a goxmldsig certificate
// store; multiple anchors support issuer key rollover. Raw public keys can
// be added for deployments that provision keys without certificates.
type RSAChecker struct {
	certStore dsig.X509CertificateStore
	extraKeys []*rsa.PublicKey
	logger    *zap.Logger
}

var _ ports.AuthenticityChecker = (*RSAChecker)(nil)

// NewRSAChecker creates a checker trusting the given certificates.
// A nil logger disables logging.
func NewRSAChecker(certs []*x509.Certificate, logger *zap.Logger) *RSAChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RSAChecker{
		certStore: &dsig.MemoryX509CertificateStore{Roots: certs},
		logger:    logger,
	}
}

// AddPublicKey adds a raw RSA public key as an additional trust anchor.
func (c *RSAChecker) AddPublicKey(key *rsa.PublicKey) {
	c.extraKeys = append(c.extraKeys, key)
}

// CheckAuthenticity implements ports.AuthenticityChecker. It reports true
// if signature validates over digest under any trusted key.
func (c *RSAChecker) CheckAuthenticity(digest, signature []byte) (bool, error) {
	if len(digest) != sha1.Size {
		return false, fmt.Errorf("digest is %d bytes, want %d", len(digest), sha1.Size)
	}

	keys, err := c.trustedKeys()
	if err != nil {
		return false, err
	}
	if len(keys) == 0 {
		return false, errors.New("no trusted RSA keys provisioned")
	}

	for _, key := range keys {
		if rsa.VerifyPKCS1v15(key, crypto.SHA1, digest, signature) == nil {
			return true, nil
		}
	}
	c.logger.Debug("signature did not validate under any trusted key",
		zap.Int("keys_tried", len(keys)))
	return false, nil
}

// trustedKeys collects RSA public keys from the certificate store and any
// directly provisioned keys. Certificates with non-RSA keys are skipped:
// the artifact signing scheme is RSA-only.
func (c *RSAChecker) trustedKeys() ([]*rsa.PublicKey, error) {
	certs, err := c.certStore.Certificates()
	if err != nil {
		return nil, fmt.Errorf("certificate store: %w", err)
	}

	keys := make([]*rsa.PublicKey, 0, len(certs)+len(c.extraKeys))
	for _, cert := range certs {
		if key, ok := cert.PublicKey.(*rsa.PublicKey); ok {
			keys = append(keys, key)
		}
	}
	keys = append(keys, c.extraKeys...)
	return keys, nil
}
