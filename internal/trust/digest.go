// Package trust implements the supply-chain trust layer: package body
// digesting, Ed25519 signing/verification, OIDC trusted-publisher claim
// validation, a declarative signature policy engine, and in-toto/SLSA
// provenance binding.
package trust

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the lowercase-hex SHA-256 digest of body.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
