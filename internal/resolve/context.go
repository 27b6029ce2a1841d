package resolve

import "github.com/home-lang/pantry/internal/pantryerr"

// ResolutionContext ties a ConflictResolver, a PeerDependencyManager, and
// an OptionalDependencyManager into a single resolution pass.
type ResolutionContext struct {
	Conflicts *ConflictResolver
	Peers     *PeerDependencyManager
	Optional  *OptionalDependencyManager
}

// NewResolutionContext constructs a ResolutionContext under the given
// conflict policy and platform override (empty for the running
// platform).
func NewResolutionContext(policy Policy, platformOverride string) *ResolutionContext {
	return &ResolutionContext{
		Conflicts: NewConflictResolver(policy),
		Peers:     NewPeerDependencyManager(),
		Optional:  NewOptionalDependencyManager(platformOverride),
	}
}

// Result bundles the three managers' outputs from one ResolveAll call.
type Result struct {
	ConflictResolutions map[string]Resolution
	PeerValidation       PeerValidation
	OptionalSummary      Summary
}

// ResolveAll runs conflict reconciliation and peer validation, then
// returns both alongside whatever optional-dependency outcomes have been
// recorded so far. A ConflictUnresolved or UnsatisfiedPeer failure is
// returned as an error; the partial Result is still returned so the
// caller can render diagnostics.
func (rc *ResolutionContext) ResolveAll() (Result, error) {
	resolutions, conflictErr := rc.Conflicts.ResolveAll()
	validation := rc.Peers.Validate()

	result := Result{
		ConflictResolutions: resolutions,
		PeerValidation:       validation,
		OptionalSummary:      rc.Optional.Summary(),
	}

	if conflictErr != nil {
		return result, conflictErr
	}
	if !validation.Satisfied && len(validation.Missing) > 0 {
		return result, pantryerr.New(pantryerr.KindUnsatisfiedPeer,
			"one or more required peer dependencies are missing or incompatible")
	}
	if !validation.Satisfied && len(validation.Incompatible) > 0 {
		return result, pantryerr.New(pantryerr.KindUnsatisfiedPeer,
			"one or more installed peer dependencies are incompatible with declared ranges")
	}
	return result, nil
}
