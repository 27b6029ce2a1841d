package trust

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDigestIsDeterministicLowercaseHex(t *testing.T) {
	d1 := Digest([]byte("hello"))
	d2 := Digest([]byte("hello"))
	require.Equal(t, d1, d2)
	require.Len(t, d1, 64)
	require.Regexp(t, "^[0-9a-f]+$", d1)
}

func generateKeyPair(t *testing.T) (ed25519.PublicKey, []byte) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	seed := priv.Seed()
	return pub, seed
}

func pemEncode(pub ed25519.PublicKey) string {
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: pub}
	return string(pem.EncodeToMemory(block))
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	pub, seed := generateKeyPair(t)
	data := []byte("package body")

	sig, err := Sign(data, seed, DefaultKeyID(pub))
	require.NoError(t, err)

	keyring := NewKeyring()
	keyring.AddKey(sig.KeyID, pemEncode(pub))

	require.NoError(t, Verify(data, sig, keyring))
}

func TestVerifyFailsForUnknownKeyID(t *testing.T) {
	pub, seed := generateKeyPair(t)
	data := []byte("package body")
	sig, err := Sign(data, seed, DefaultKeyID(pub))
	require.NoError(t, err)

	keyring := NewKeyring()
	require.Error(t, Verify(data, sig, keyring))
}

func TestVerifyFailsForTamperedData(t *testing.T) {
	pub, seed := generateKeyPair(t)
	sig, err := Sign([]byte("original"), seed, DefaultKeyID(pub))
	require.NoError(t, err)

	keyring := NewKeyring()
	keyring.AddKey(sig.KeyID, pemEncode(pub))

	require.Error(t, Verify([]byte("tampered"), sig, keyring))
}

func TestSignRejectsWrongSeedLength(t *testing.T) {
	_, err := Sign([]byte("data"), []byte("too-short"), "key1")
	require.Error(t, err)
}

func TestValidateExpirationFailsAtOrAfterExp(t *testing.T) {
	claims := Claims{Expiry: 1000}
	require.Error(t, ValidateExpiration(claims, time.Unix(1000, 0)))
	require.Error(t, ValidateExpiration(claims, time.Unix(1001, 0)))
	require.NoError(t, ValidateExpiration(claims, time.Unix(999, 0)))
}

func TestTrustedPublisherValidateClaims(t *testing.T) {
	tp := TrustedPublisher{
		Issuer:        "https://token.actions.githubusercontent.com",
		SubjectPrefix: "repo:acme/pantry",
		AllowedRefs:   []string{"refs/heads/main"},
	}

	good := Claims{Issuer: tp.Issuer, Subject: "repo:acme/pantry:ref:refs/heads/main", Ref: "refs/heads/main"}
	require.True(t, tp.ValidateClaims(good))

	wrongIssuer := good
	wrongIssuer.Issuer = "https://evil.example.com"
	require.False(t, tp.ValidateClaims(wrongIssuer))

	wrongRef := good
	wrongRef.Ref = "refs/heads/feature"
	require.False(t, tp.ValidateClaims(wrongRef))
}

func TestEnforcePolicyOffAlwaysAllows(t *testing.T) {
	res := EnforcePolicy(SignaturePolicy{Level: LevelOff}, "anything", nil, nil, NewKeyring())
	require.True(t, res.Allowed)
	require.Empty(t, res.Violations)
}

func TestEnforcePolicyExemptGlobAllows(t *testing.T) {
	policy := SignaturePolicy{Level: LevelStrict, Exempt: []string{"@internal/*"}}
	res := EnforcePolicy(policy, "@internal/tools", nil, nil, NewKeyring())
	require.True(t, res.Allowed)
}

func TestEnforcePolicyStrictMissingSignatureViolates(t *testing.T) {
	policy := SignaturePolicy{Level: LevelStrict}
	res := EnforcePolicy(policy, "lodash", nil, []byte("body"), NewKeyring())
	require.False(t, res.Allowed)
	require.NotEmpty(t, res.Violations)
}

func TestEnforcePolicyWarnDowngradesViolationToAllowed(t *testing.T) {
	policy := SignaturePolicy{Level: LevelWarn}
	res := EnforcePolicy(policy, "lodash", nil, []byte("body"), NewKeyring())
	require.True(t, res.Allowed)
	require.NotEmpty(t, res.Violations)
}

func TestEnforcePolicyValidSignaturePasses(t *testing.T) {
	pub, seed := generateKeyPair(t)
	body := []byte("package body")
	sig, err := Sign(body, seed, DefaultKeyID(pub))
	require.NoError(t, err)

	keyring := NewKeyring()
	keyring.AddKey(sig.KeyID, pemEncode(pub))

	policy := SignaturePolicy{Level: LevelStrict}
	res := EnforcePolicy(policy, "lodash", &sig, body, keyring)
	require.True(t, res.Allowed)
	require.Empty(t, res.Violations)
}

func TestEnforcePolicyUntrustedKeyIDViolates(t *testing.T) {
	pub, seed := generateKeyPair(t)
	body := []byte("package body")
	sig, err := Sign(body, seed, DefaultKeyID(pub))
	require.NoError(t, err)

	keyring := NewKeyring()
	keyring.AddKey(sig.KeyID, pemEncode(pub))

	policy := SignaturePolicy{Level: LevelStrict, TrustedKeys: []string{"some-other-key"}}
	res := EnforcePolicy(policy, "lodash", &sig, body, keyring)
	require.False(t, res.Allowed)
}

func TestNewStatementAndVerifyProvenanceRoundTrip(t *testing.T) {
	body := []byte("package body")
	stmt := NewStatement("lodash", body, map[string]any{"builder": "ci"})
	require.NoError(t, VerifyProvenance(stmt, body))
}

func TestVerifyProvenanceFailsOnDigestMismatch(t *testing.T) {
	stmt := NewStatement("lodash", []byte("original"), nil)
	require.Error(t, VerifyProvenance(stmt, []byte("tampered")))
}
