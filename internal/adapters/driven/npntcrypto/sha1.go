// Package npntcrypto provides the digest and authenticity adapters for
// permission-artifact verification: a SHA-1 accumulator and an RSA
// PKCS#1 v1.5 signature checker backed by a trust-anchor certificate
// store.
package npntcrypto

import (
	// The permission-artifact signing scheme is fixed on SHA-1 by the
	// issuing authority; this library verifies, it does not choose.
	"crypto/sha1" //nolint:gosec
	"hash"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// sha1Accumulator wraps crypto/sha1 as a ports.DigestAccumulator. One
// accumulator is created per verification pass; there is no shared state.
type sha1Accumulator struct {
	h hash.Hash
}

// NewSHA1 creates a fresh 160-bit digest accumulator. It satisfies
// ports.DigestFactory.
func NewSHA1() ports.DigestAccumulator {
	return &sha1Accumulator{h: sha1.New()}
}

func (a *sha1Accumulator) Reset() {
	a.h.Reset()
}

func (a *sha1Accumulator) Update(p []byte) {
	a.h.Write(p)
}

func (a *sha1Accumulator) Sum() []byte {
	return a.h.Sum(nil)
}
