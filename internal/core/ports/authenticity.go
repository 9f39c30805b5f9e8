package ports

// AuthenticityChecker verifies that a digest was signed by a trusted key.
// This is a port interface - implementations are adapters.
//
// The checker is provisioned with the sender's public key material out of
// band (trust-anchor certificates or raw public keys); the verification
// engine never sees key material.
type AuthenticityChecker interface {
	// CheckAuthenticity reports whether signature is a valid signature
	// over the 20-byte digest by any trusted key. A false return with nil
	// error means the signature simply does not validate; an error means
	// the check itself could not be performed (e.g. no trusted keys).
	CheckAuthenticity(digest, signature []byte) (bool, error)
}
