package imagestore

import (
	"crypto/sha1"
	"encoding/hex"
)

// HashBytes returns the hex-encoded SHA-1 digest of b.
// This is the deduplication key for stored images.
func HashBytes(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
