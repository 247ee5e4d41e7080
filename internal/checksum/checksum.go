// Package checksum provides the digests used for record fingerprints and
// attachment file names.
package checksum

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short returns the first 8 hex characters of the MD5 digest of s.
// Attachment names embed it to keep same-named files from different
// sources apart; it is not a security boundary.
func Short(s string) string {
	h := md5.Sum([]byte(s))
	return hex.EncodeToString(h[:])[:8]
}
