// Package resolve implements the dependency-resolution engine: conflict
// reconciliation, peer-dependency validation, optional-dependency gating,
// and version-range satisfaction.
//
// VersionChecker delegates caret/tilde/inequality comparisons to
// Masterminds/semver/v3, which handles major-boundary caret semantics
// correctly (^0.2.3 only admits 0.2.x) rather than a minimal,
// boundary-unaware implementation.
package resolve

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionChecker evaluates whether a concrete version satisfies a range.
type VersionChecker struct{}

// NewVersionChecker constructs a VersionChecker. It carries no state; the
// type exists so call sites read as `resolve.NewVersionChecker().Satisfies(...)`,
// matching the rest of the package's named-component shape.
func NewVersionChecker() *VersionChecker {
	return &VersionChecker{}
}

// Satisfies reports whether version satisfies rng. Workspace ranges
// always satisfy. latest/next/*/empty always satisfy. Comparator
// forms and exact versions are checked via semver.
func (VersionChecker) Satisfies(version, rng string) bool {
	if strings.HasPrefix(rng, "workspace:") {
		return true
	}
	switch rng {
	case "latest", "next", "*", "":
		return true
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}

	constraintStr := rng
	// semver/v3 parses bare "1.2.3" as an exact-match constraint already,
	// and understands ^ ~ > < >= <= = natively.
	c, err := semver.NewConstraint(constraintStr)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// Compare orders two version strings the way ConflictResolver's
// highest_compatible policy needs: by the (major, minor, patch) triple,
// then lexicographically by pre-release tag, following standard
// semver-comparison rules. Returns -1, 0, or 1.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}

// MaxSatisfying returns the greatest version, among candidates, that
// satisfies rng, following standard semver precedence (release versions
// outrank pre-releases at equal (major,minor,patch)). Returns ("", false)
// if none satisfy.
func MaxSatisfying(rng string, candidates []string) (string, bool) {
	checker := VersionChecker{}
	best := ""
	found := false
	for _, cand := range candidates {
		if !checker.Satisfies(cand, rng) {
			continue
		}
		if !found || Compare(cand, best) > 0 {
			best = cand
			found = true
		}
	}
	return best, found
}

// rangeCeiling derives a representative "maximum admitted version" for a
// range, used by the highest_compatible conflict policy to rank
// requirements that may never have been checked against the same
// candidate list. For exact and comparator ranges this is the version
// named in the range itself (caret/tilde ranges admit versions at or
// above their base up to the next major/minor boundary, so the *base*
// version is also the right sort key: a higher base implies a higher
// admitted ceiling in practice for real-world ranges).
func rangeCeiling(rng string) (string, bool) {
	trimmed := rng
	for _, prefix := range []string{"^", "~", ">=", "<=", ">", "<", "="} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimPrefix(trimmed, prefix)
			break
		}
	}
	if _, err := semver.NewVersion(trimmed); err != nil {
		return "", false
	}
	return trimmed, true
}
