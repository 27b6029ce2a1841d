package resolve

// PeerRequirement is one declared peer edge: pkg declares that it peers
// on peerName, satisfying range, optionally marked non-fatal-if-missing.
type PeerRequirement struct {
	PeerName   string
	Range      string
	RequiredBy string
	Optional   bool
}

// Incompatibility describes an installed version that fails to satisfy
// a declared peer range.
type Incompatibility struct {
	PeerName   string
	Installed  string
	Range      string
	RequiredBy string
}

// PeerValidation is the outcome of PeerDependencyManager.Validate.
type PeerValidation struct {
	Satisfied    bool
	Missing      []PeerRequirement
	Incompatible []Incompatibility
	Warnings     []string
}

// PeerDependencyManager tracks installed package versions and declared
// peer edges, and validates that every edge is met.
type PeerDependencyManager struct {
	installed map[string]string
	peers     []PeerRequirement
	checker   VersionChecker
}

// NewPeerDependencyManager constructs an empty manager.
func NewPeerDependencyManager() *PeerDependencyManager {
	return &PeerDependencyManager{installed: make(map[string]string)}
}

// SetInstalled records that pkg resolved to version.
func (m *PeerDependencyManager) SetInstalled(pkg, version string) {
	m.installed[pkg] = version
}

// AddPeer declares a peer edge.
func (m *PeerDependencyManager) AddPeer(req PeerRequirement) {
	m.peers = append(m.peers, req)
}

// Validate checks every declared peer edge against installed versions.
// A missing required peer marks satisfied=false and is added to Missing.
// A missing optional peer does not flip satisfied to false by itself but
// emits a warning. An installed peer whose version fails the declared
// range is Incompatible and also marks satisfied=false.
func (m *PeerDependencyManager) Validate() PeerValidation {
	var v PeerValidation
	v.Satisfied = true

	for _, peer := range m.peers {
		installed, ok := m.installed[peer.PeerName]
		if !ok {
			if peer.Optional {
				v.Warnings = append(v.Warnings, "optional peer "+peer.PeerName+" required by "+peer.RequiredBy+" is not installed")
				continue
			}
			v.Missing = append(v.Missing, peer)
			v.Satisfied = false
			continue
		}
		if !m.checker.Satisfies(installed, peer.Range) {
			v.Incompatible = append(v.Incompatible, Incompatibility{
				PeerName:   peer.PeerName,
				Installed:  installed,
				Range:      peer.Range,
				RequiredBy: peer.RequiredBy,
			})
			v.Satisfied = false
		}
	}

	return v
}
