package serialization

import (
	"crypto/sha256"
)

// computeChecksum returns the SHA-256 digest of the payload (everything
// after the fixed header: JSON header, padding, and tensor data).
func computeChecksum(payload []byte) [ChecksumSize]byte {
	return sha256.Sum256(payload)
}

// verifyChecksum reports whether the payload matches the stored digest.
func verifyChecksum(payload []byte, want [ChecksumSize]byte) bool {
	return computeChecksum(payload) == want
}
