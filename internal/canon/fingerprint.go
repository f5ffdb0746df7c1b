package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints.
// The version suffix allows the algorithm to change later.
const (
	DomainAssignment = "fxbgp/assignment/v1"
	DomainPattern    = "fxbgp/pattern/v1"
)

// Fingerprint hashes the canonical JSON of v with domain separation:
// SHA256(domain + 0x00 + canonical(v)), hex encoded.
func Fingerprint(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
