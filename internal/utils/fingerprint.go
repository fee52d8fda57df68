package utils

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short, stable digest of an email address so logs can
// correlate submissions without carrying the address itself.
func Fingerprint(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(email))
	return hex.EncodeToString(sum[:6])
}
