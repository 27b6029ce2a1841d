package paths

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashKeySplit(t *testing.T) {
	short := "lodash"
	long := strings.Repeat("x", 40)

	require.Len(t, HashKey(short), 16, "fnv-1a 64-bit hex is 16 chars")
	require.Len(t, HashKey(long), 32, "md5 hex is 32 chars")
}

func TestHashKeyDeterministic(t *testing.T) {
	require.Equal(t, HashKey("react"), HashKey("react"))
	require.NotEqual(t, HashKey("react"), HashKey("react-dom"))
}

func TestHexFingerprintIs32LowercaseHexChars(t *testing.T) {
	fp := FingerprintPath("/tmp/does-not-exist/package.json")
	hexStr := HexFingerprint(fp)
	require.Len(t, hexStr, 32)
	require.Equal(t, strings.ToLower(hexStr), hexStr)
}

func TestFingerprintPathStableForSamePath(t *testing.T) {
	a := HexFingerprint(FingerprintPath("/tmp/project-a/package.json"))
	b := HexFingerprint(FingerprintPath("/tmp/project-a/package.json"))
	c := HexFingerprint(FingerprintPath("/tmp/project-b/package.json"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("lodash")
	b := in.Intern("lodash")
	require.Equal(t, 1, in.Len())
	require.Equal(t, a, b)

	in.Intern("react")
	require.Equal(t, 2, in.Len())
}

func TestLibraryDynamicPathVarIsPlatformSpecific(t *testing.T) {
	v := LibraryDynamicPathVar()
	require.NotEmpty(t, v)
}
