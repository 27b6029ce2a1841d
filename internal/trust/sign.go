package trust

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/pem"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// Signature is a detached Ed25519 signature over a package body digest.
type Signature struct {
	Algorithm string
	KeyID     string
	Bytes     []byte
}

// Sign produces a detached Ed25519 signature over data, using seed as
// the 32-byte private seed expanded via the standard Ed25519
// construction.
func Sign(data []byte, seed []byte, keyID string) (Signature, error) {
	if len(seed) != ed25519.SeedSize {
		return Signature{}, pantryerr.New(pantryerr.KindSignatureVerificationFailed, "seed must be 32 bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	sig := ed25519.Sign(priv, data)
	return Signature{Algorithm: "ed25519", KeyID: keyID, Bytes: sig}, nil
}

// Keyring maps opaque key ids to PEM-encoded Ed25519 public keys.
type Keyring struct {
	keys map[string]string
}

// NewKeyring constructs an empty Keyring.
func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[string]string)}
}

// AddKey registers a PEM-encoded public key under keyID.
func (k *Keyring) AddKey(keyID, publicPEM string) {
	k.keys[keyID] = publicPEM
}

// Find returns the PEM-encoded public key registered under keyID.
func (k *Keyring) Find(keyID string) (string, bool) {
	pemStr, ok := k.keys[keyID]
	return pemStr, ok
}

// DefaultKeyID derives a sensible default key id from a public key: the
// base64url encoding of the raw key bytes.
func DefaultKeyID(pub ed25519.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(pub)
}

// Verify checks sig against data using the keyring entry named by
// sig.KeyID. It fails with SignatureVerificationFailed if the key id is
// unknown, the PEM block does not parse as an Ed25519 public key, or the
// signature itself does not verify.
func Verify(data []byte, sig Signature, keyring *Keyring) error {
	pemStr, ok := keyring.Find(sig.KeyID)
	if !ok {
		return pantryerr.New(pantryerr.KindSignatureVerificationFailed, "unknown key id "+sig.KeyID)
	}

	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return pantryerr.New(pantryerr.KindSignatureVerificationFailed, "could not decode PEM public key for "+sig.KeyID)
	}

	pub := ed25519.PublicKey(block.Bytes)
	if len(pub) != ed25519.PublicKeySize {
		return pantryerr.New(pantryerr.KindSignatureVerificationFailed, "public key for "+sig.KeyID+" is not a valid Ed25519 key")
	}

	if !ed25519.Verify(pub, data, sig.Bytes) {
		return pantryerr.New(pantryerr.KindSignatureVerificationFailed, "signature does not verify for key "+sig.KeyID)
	}
	return nil
}
