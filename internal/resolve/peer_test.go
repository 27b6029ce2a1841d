package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeerValidateSatisfiedWhenAllEdgesMet(t *testing.T) {
	m := NewPeerDependencyManager()
	m.SetInstalled("react", "18.2.0")
	m.AddPeer(PeerRequirement{PeerName: "react", Range: "^18.0.0", RequiredBy: "react-dom"})

	v := m.Validate()
	require.True(t, v.Satisfied)
	require.Empty(t, v.Missing)
	require.Empty(t, v.Incompatible)
}

func TestPeerValidateMissingRequiredPeerFails(t *testing.T) {
	m := NewPeerDependencyManager()
	m.AddPeer(PeerRequirement{PeerName: "react", Range: "^18.0.0", RequiredBy: "react-dom"})

	v := m.Validate()
	require.False(t, v.Satisfied)
	require.Len(t, v.Missing, 1)
	require.Equal(t, "react", v.Missing[0].PeerName)
}

func TestPeerValidateMissingOptionalPeerWarnsOnly(t *testing.T) {
	m := NewPeerDependencyManager()
	m.AddPeer(PeerRequirement{PeerName: "react-native", Range: "*", RequiredBy: "some-lib", Optional: true})

	v := m.Validate()
	require.True(t, v.Satisfied)
	require.Empty(t, v.Missing)
	require.Len(t, v.Warnings, 1)
}

func TestPeerValidateIncompatibleInstalledVersionFails(t *testing.T) {
	m := NewPeerDependencyManager()
	m.SetInstalled("react", "17.0.0")
	m.AddPeer(PeerRequirement{PeerName: "react", Range: "^18.0.0", RequiredBy: "react-dom"})

	v := m.Validate()
	require.False(t, v.Satisfied)
	require.Len(t, v.Incompatible, 1)
	require.Equal(t, "17.0.0", v.Incompatible[0].Installed)
}
