package ports

// DigestAccumulator is a 160-bit running digest with reset/update/finalize
// semantics. One accumulator is created per verification pass; there is no
// process-wide digest state.
type DigestAccumulator interface {
	// Reset clears the accumulator to its initial state.
	Reset()

	// Update feeds bytes into the running digest.
	Update(p []byte)

	// Sum finalizes and returns the 20-byte digest. The accumulator must
	// be Reset before reuse.
	Sum() []byte
}

// DigestFactory creates a fresh accumulator for one verification pass.
type DigestFactory func() DigestAccumulator
