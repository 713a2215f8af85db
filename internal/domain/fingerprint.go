package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes a stable content fingerprint over the given parts.
// Parts are joined with a separator that cannot appear in normalized text,
// so ("ab","c") and ("a","bc") never collide.
func Fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:16])
}
