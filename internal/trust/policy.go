package trust

import "github.com/gobwas/glob"

// PolicyLevel controls how strictly a SignaturePolicy is enforced.
type PolicyLevel string

const (
	LevelOff    PolicyLevel = "off"
	LevelWarn   PolicyLevel = "warn"
	LevelStrict PolicyLevel = "strict"
)

// SignaturePolicy declaratively describes which packages require a
// verified signature.
type SignaturePolicy struct {
	Level        PolicyLevel
	RequiredFor  []string // globs; unset + strict means "all packages"
	Exempt       []string // globs
	TrustedKeys  []string // when non-empty, a signature's key id must be in this list
}

// PolicyResult is the outcome of enforcing a SignaturePolicy against one
// package.
type PolicyResult struct {
	Allowed    bool
	Violations []string
}

// EnforcePolicy evaluates policy against pkgName/sig/body/keyring,
// following the rule order: off always allows; exempt globs always
// allow; required_for (or strict-with-no-required_for) mandates a
// signature; a present signature's key id is checked against
// TrustedKeys when set; the signature must verify against keyring. A
// warn-level policy downgrades any violation to a non-fatal entry
// (Allowed stays true, Violations is non-empty).
func EnforcePolicy(policy SignaturePolicy, pkgName string, sig *Signature, body []byte, keyring *Keyring) PolicyResult {
	if policy.Level == LevelOff {
		return PolicyResult{Allowed: true}
	}
	if matchesAny(policy.Exempt, pkgName) {
		return PolicyResult{Allowed: true}
	}

	var violations []string

	requiresSignature := matchesAny(policy.RequiredFor, pkgName) ||
		(len(policy.RequiredFor) == 0 && policy.Level == LevelStrict)

	if sig == nil {
		if requiresSignature {
			violations = append(violations, "no signature present for "+pkgName+" but one is required")
		}
	} else {
		if len(policy.TrustedKeys) > 0 && !contains(policy.TrustedKeys, sig.KeyID) {
			violations = append(violations, "signature key id "+sig.KeyID+" is not in trusted_keys")
		}
		if err := Verify(body, *sig, keyring); err != nil {
			violations = append(violations, err.Error())
		}
	}

	if len(violations) == 0 {
		return PolicyResult{Allowed: true}
	}
	if policy.Level == LevelWarn {
		return PolicyResult{Allowed: true, Violations: violations}
	}
	return PolicyResult{Allowed: false, Violations: violations}
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		if g.Match(name) {
			return true
		}
	}
	return false
}
