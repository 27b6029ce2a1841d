package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilterClassifiesAtomKinds(t *testing.T) {
	atoms := ParseFilter("react-*, ./packages/core, ./, !internal-*")
	require.Len(t, atoms, 4)
	require.Equal(t, AtomName, atoms[0].Kind)
	require.Equal(t, AtomPath, atoms[1].Kind)
	require.Equal(t, AtomRoot, atoms[2].Kind)
	require.Equal(t, AtomName, atoms[3].Kind)
	require.True(t, atoms[3].Negate)
}

func TestEmptyFilterMatchesEverythingIncludingRoot(t *testing.T) {
	require.True(t, Matches(Member{Name: "react-dom"}, nil))
	require.True(t, Matches(Member{Name: "root", IsRoot: true}, nil))
}

func TestNegationAlwaysWinsRegardlessOfOrder(t *testing.T) {
	atoms := ParseFilter("!internal-*, react-*")
	require.False(t, Matches(Member{Name: "internal-tools"}, atoms))
	require.True(t, Matches(Member{Name: "react-dom"}, atoms))

	// negation listed after the positive match still wins
	atoms2 := ParseFilter("react-*, !react-internal")
	require.False(t, Matches(Member{Name: "react-internal"}, atoms2))
	require.True(t, Matches(Member{Name: "react-dom"}, atoms2))
}

func TestMemberMustMatchSomeNonNegatedAtom(t *testing.T) {
	atoms := ParseFilter("!internal-*")
	require.False(t, Matches(Member{Name: "react-dom"}, atoms))
}

func TestGlobSupportsWildcardsAndQuestionMark(t *testing.T) {
	atoms := ParseFilter("pkg-???")
	require.True(t, Matches(Member{Name: "pkg-abc"}, atoms))
	require.False(t, Matches(Member{Name: "pkg-abcd"}, atoms))
}

func TestPathAtomMatchesMemberPath(t *testing.T) {
	atoms := ParseFilter("./packages/*")
	require.True(t, Matches(Member{Name: "core", Path: "packages/core"}, atoms))
	require.False(t, Matches(Member{Name: "core", Path: "apps/core"}, atoms))
}

func TestTrailingSlashMustMatchOnBothSides(t *testing.T) {
	atoms := ParseFilter("react-*/")
	require.False(t, Matches(Member{Name: "react-dom"}, atoms))
	require.True(t, Matches(Member{Name: "react-dom/"}, atoms))
}
