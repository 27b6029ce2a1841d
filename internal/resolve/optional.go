package resolve

import (
	"fmt"
	"runtime"

	mapset "github.com/deckarep/golang-set"
)

// OptionalDependency is one entry from a manifest's optionalDependencies
// field, possibly restricted to a set of platforms.
type OptionalDependency struct {
	Name             string
	Version          string
	PlatformSpecific bool
	Platforms        mapset.Set // of "os/arch" strings, e.g. "linux/amd64"
}

// Outcome classifies the result of attempting to install one optional
// dependency.
type Outcome struct {
	Name   string
	Status OutcomeStatus
	Reason string
}

// OutcomeStatus is one of the three terminal states an optional-dependency
// install attempt can land in.
type OutcomeStatus string

const (
	OutcomeInstalled OutcomeStatus = "installed"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// Summary aggregates per-attempt Outcomes.
type Summary struct {
	Outcomes []Outcome
}

// Installed reports names that landed in OutcomeInstalled.
func (s Summary) Installed() []string { return s.namesWith(OutcomeInstalled) }

// Failed reports names that landed in OutcomeFailed.
func (s Summary) Failed() []string { return s.namesWith(OutcomeFailed) }

// Skipped reports names that landed in OutcomeSkipped.
func (s Summary) Skipped() []string { return s.namesWith(OutcomeSkipped) }

func (s Summary) namesWith(status OutcomeStatus) []string {
	var out []string
	for _, o := range s.Outcomes {
		if o.Status == status {
			out = append(out, o.Name)
		}
	}
	return out
}

// OptionalDependencyManager filters optional dependencies by the current
// platform/arch and tracks install outcomes.
type OptionalDependencyManager struct {
	deps     []OptionalDependency
	platform string
	summary  Summary
}

// NewOptionalDependencyManager constructs a manager bound to the running
// process's GOOS/GOARCH. platformOverride, if non-empty, is used instead
// (primarily for tests).
func NewOptionalDependencyManager(platformOverride string) *OptionalDependencyManager {
	platform := platformOverride
	if platform == "" {
		platform = currentPlatform()
	}
	return &OptionalDependencyManager{platform: platform}
}

func currentPlatform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// Add registers an optional dependency.
func (m *OptionalDependencyManager) Add(dep OptionalDependency) {
	m.deps = append(m.deps, dep)
}

// ShouldInstall reports whether name should be installed on this
// platform: true iff the dependency is not platform-specific, or its
// platform set contains the current platform.
func (m *OptionalDependencyManager) ShouldInstall(name string) bool {
	for _, dep := range m.deps {
		if dep.Name != name {
			continue
		}
		if !dep.PlatformSpecific {
			return true
		}
		if dep.Platforms == nil {
			return false
		}
		return dep.Platforms.Contains(m.platform)
	}
	return false
}

// RecordOutcome appends one attempt's terminal status to the running
// summary.
func (m *OptionalDependencyManager) RecordOutcome(name string, status OutcomeStatus, reason string) {
	m.summary.Outcomes = append(m.summary.Outcomes, Outcome{Name: name, Status: status, Reason: reason})
}

// Summary returns the accumulated per-attempt outcomes.
func (m *OptionalDependencyManager) Summary() Summary {
	return m.summary
}
