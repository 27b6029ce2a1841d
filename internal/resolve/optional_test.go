package resolve

import (
	"testing"

	mapset "github.com/deckarep/golang-set"
	"github.com/stretchr/testify/require"
)

func TestShouldInstallNonPlatformSpecificAlwaysTrue(t *testing.T) {
	m := NewOptionalDependencyManager("linux/amd64")
	m.Add(OptionalDependency{Name: "fsevents", PlatformSpecific: false})
	require.True(t, m.ShouldInstall("fsevents"))
}

func TestShouldInstallPlatformSpecificMatchesCurrentPlatform(t *testing.T) {
	m := NewOptionalDependencyManager("darwin/arm64")
	m.Add(OptionalDependency{
		Name:             "fsevents",
		PlatformSpecific: true,
		Platforms:        mapset.NewSetFromSlice([]interface{}{"darwin/arm64", "darwin/amd64"}),
	})
	require.True(t, m.ShouldInstall("fsevents"))
}

func TestShouldInstallPlatformSpecificRejectsOtherPlatform(t *testing.T) {
	m := NewOptionalDependencyManager("linux/amd64")
	m.Add(OptionalDependency{
		Name:             "fsevents",
		PlatformSpecific: true,
		Platforms:        mapset.NewSetFromSlice([]interface{}{"darwin/arm64", "darwin/amd64"}),
	})
	require.False(t, m.ShouldInstall("fsevents"))
}

func TestShouldInstallUnknownNameIsFalse(t *testing.T) {
	m := NewOptionalDependencyManager("linux/amd64")
	require.False(t, m.ShouldInstall("never-added"))
}

func TestRecordOutcomeAndSummaryBuckets(t *testing.T) {
	m := NewOptionalDependencyManager("linux/amd64")
	m.RecordOutcome("a", OutcomeInstalled, "")
	m.RecordOutcome("b", OutcomeFailed, "network error")
	m.RecordOutcome("c", OutcomeSkipped, "platform mismatch")

	s := m.Summary()
	require.Equal(t, []string{"a"}, s.Installed())
	require.Equal(t, []string{"b"}, s.Failed())
	require.Equal(t, []string{"c"}, s.Skipped())
}
