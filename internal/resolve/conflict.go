package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// Policy selects how ConflictResolver reconciles competing requirements
// for the same package.
type Policy string

// Conflict-resolution policies.
const (
	PolicyHighestCompatible Policy = "highest_compatible"
	PolicyFirstWins         Policy = "first_wins"
	PolicyLastWins          Policy = "last_wins"
	PolicyStrict            Policy = "strict"
)

// Requirement is one (package, dependent, range) record accumulated
// during a dependency-graph walk.
type Requirement struct {
	Package   string
	Dependent string
	Range     string
}

// ConflictResolver accumulates Requirements and reconciles them into a
// single chosen range per package, according to Policy.
type ConflictResolver struct {
	policy       Policy
	requirements map[string][]Requirement
	order        []string // package names in first-seen order, for stable reporting
}

// NewConflictResolver constructs a ConflictResolver under the given
// policy.
func NewConflictResolver(policy Policy) *ConflictResolver {
	return &ConflictResolver{
		policy:       policy,
		requirements: make(map[string][]Requirement),
	}
}

// RecordRequirement accumulates one requirement for pkg.
func (r *ConflictResolver) RecordRequirement(pkg, by, rng string) {
	if _, seen := r.requirements[pkg]; !seen {
		r.order = append(r.order, pkg)
	}
	r.requirements[pkg] = append(r.requirements[pkg], Requirement{Package: pkg, Dependent: by, Range: rng})
}

// Resolution is the outcome of resolving one package's requirements.
type Resolution struct {
	Package          string
	Chosen           string   // the winning range; empty under PolicyStrict when Conflicting
	Conflicting      bool     // true if more than one distinct range was requested
	AllRequirements  []Requirement
}

// ResolveAll reconciles every accumulated package's requirements under
// the resolver's policy. Under PolicyStrict, conflicting packages get a
// zero Chosen value and Conflicting=true; the caller is expected to
// surface a ConflictUnresolved error for those.
func (r *ConflictResolver) ResolveAll() (map[string]Resolution, error) {
	out := make(map[string]Resolution, len(r.order))
	for _, pkg := range r.order {
		reqs := r.requirements[pkg]
		distinct := distinctRanges(reqs)
		res := Resolution{Package: pkg, AllRequirements: reqs, Conflicting: len(distinct) > 1}

		switch r.policy {
		case PolicyFirstWins:
			res.Chosen = reqs[0].Range
		case PolicyLastWins:
			res.Chosen = reqs[len(reqs)-1].Range
		case PolicyStrict:
			if res.Conflicting {
				out[pkg] = res
				continue
			}
			res.Chosen = reqs[0].Range
		case PolicyHighestCompatible:
			chosen, err := highestCompatible(reqs)
			if err != nil {
				return nil, err
			}
			res.Chosen = chosen
		default:
			return nil, pantryerr.New(pantryerr.KindConflictUnresolved, fmt.Sprintf("unknown policy %q", r.policy))
		}
		out[pkg] = res
	}

	if r.policy == PolicyStrict {
		var unresolved []string
		for pkg, res := range out {
			if res.Conflicting {
				unresolved = append(unresolved, pkg)
			}
		}
		if len(unresolved) > 0 {
			sort.Strings(unresolved)
			return out, pantryerr.New(pantryerr.KindConflictUnresolved,
				fmt.Sprintf("unresolved conflicts for: %s", strings.Join(unresolved, ", ")))
		}
	}

	return out, nil
}

// highestCompatible picks, among reqs, the requirement whose range admits
// the greatest semver-sorted ceiling; ties keep the first-recorded
// requirement.
func highestCompatible(reqs []Requirement) (string, error) {
	bestIdx := -1
	var bestCeiling string
	for i, req := range reqs {
		ceiling, ok := rangeCeiling(req.Range)
		if !ok {
			return "", pantryerr.New(pantryerr.KindUnparseableRange,
				fmt.Sprintf("cannot parse range %q required by %q", req.Range, req.Dependent))
		}
		if bestIdx == -1 || Compare(ceiling, bestCeiling) > 0 {
			bestIdx = i
			bestCeiling = ceiling
		}
	}
	return reqs[bestIdx].Range, nil
}

func distinctRanges(reqs []Requirement) []string {
	seen := make(map[string]struct{}, len(reqs))
	var out []string
	for _, r := range reqs {
		if _, ok := seen[r.Range]; !ok {
			seen[r.Range] = struct{}{}
			out = append(out, r.Range)
		}
	}
	return out
}

// ConflictReport renders a stable, human-readable description of every
// contested package (more than one distinct range requested), sorted by
// package name.
func (r *ConflictResolver) ConflictReport() string {
	var packages []string
	for pkg, reqs := range r.requirements {
		if len(distinctRanges(reqs)) > 1 {
			packages = append(packages, pkg)
		}
	}
	sort.Strings(packages)

	var b strings.Builder
	for _, pkg := range packages {
		fmt.Fprintf(&b, "%s:\n", pkg)
		reqs := append([]Requirement(nil), r.requirements[pkg]...)
		sort.Slice(reqs, func(i, j int) bool {
			if reqs[i].Dependent != reqs[j].Dependent {
				return reqs[i].Dependent < reqs[j].Dependent
			}
			return reqs[i].Range < reqs[j].Range
		})
		for _, req := range reqs {
			fmt.Fprintf(&b, "  %s requires %s\n", req.Dependent, req.Range)
		}
	}
	return b.String()
}
