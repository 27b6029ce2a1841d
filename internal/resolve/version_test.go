package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSatisfiesCaretRespectsMajorBoundary(t *testing.T) {
	vc := NewVersionChecker()
	require.True(t, vc.Satisfies("1.2.4", "^1.2.3"))
	require.False(t, vc.Satisfies("2.0.0", "^1.2.3"))
	require.True(t, vc.Satisfies("0.2.9", "^0.2.3"))
	require.False(t, vc.Satisfies("0.3.0", "^0.2.3"))
}

func TestSatisfiesTilde(t *testing.T) {
	vc := NewVersionChecker()
	require.True(t, vc.Satisfies("1.2.9", "~1.2.3"))
	require.False(t, vc.Satisfies("1.3.0", "~1.2.3"))
}

func TestSatisfiesInequalities(t *testing.T) {
	vc := NewVersionChecker()
	require.True(t, vc.Satisfies("2.0.0", ">1.0.0"))
	require.True(t, vc.Satisfies("1.0.0", ">=1.0.0"))
	require.False(t, vc.Satisfies("1.0.0", ">1.0.0"))
	require.True(t, vc.Satisfies("1.0.0", "<=1.0.0"))
}

func TestSatisfiesWorkspaceAndWildcards(t *testing.T) {
	vc := NewVersionChecker()
	require.True(t, vc.Satisfies("1.0.0", "workspace:*"))
	require.True(t, vc.Satisfies("anything", "workspace:^"))
	require.True(t, vc.Satisfies("1.0.0", "latest"))
	require.True(t, vc.Satisfies("1.0.0", "*"))
	require.True(t, vc.Satisfies("1.0.0", ""))
}

func TestSatisfiesRejectsUnparseableVersion(t *testing.T) {
	vc := NewVersionChecker()
	require.False(t, vc.Satisfies("not-a-version", "^1.0.0"))
}

func TestCompareOrdering(t *testing.T) {
	require.Equal(t, -1, Compare("1.0.0", "2.0.0"))
	require.Equal(t, 1, Compare("2.0.0", "1.0.0"))
	require.Equal(t, 0, Compare("1.0.0", "1.0.0"))
}

func TestCompareFallsBackToStringCompareOnParseFailure(t *testing.T) {
	require.Equal(t, 0, Compare("abc", "abc"))
}

func TestMaxSatisfyingPicksGreatestMatch(t *testing.T) {
	best, ok := MaxSatisfying("^1.0.0", []string{"1.0.0", "1.5.0", "2.0.0", "1.9.9"})
	require.True(t, ok)
	require.Equal(t, "1.9.9", best)
}

func TestMaxSatisfyingNoMatch(t *testing.T) {
	_, ok := MaxSatisfying("^3.0.0", []string{"1.0.0", "2.0.0"})
	require.False(t, ok)
}

func TestRangeCeilingStripsComparatorPrefixes(t *testing.T) {
	for _, rng := range []string{"^1.2.3", "~1.2.3", ">=1.2.3", "<=1.2.3", ">1.2.3", "<1.2.3", "=1.2.3", "1.2.3"} {
		ceiling, ok := rangeCeiling(rng)
		require.True(t, ok, "range %q", rng)
		require.Equal(t, "1.2.3", ceiling)
	}
}

func TestRangeCeilingRejectsNonSemverBase(t *testing.T) {
	_, ok := rangeCeiling("^latest")
	require.False(t, ok)
}
